package database_test

import (
	"testing"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
)

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []database.Status{
		database.StatusPending, database.StatusPublished,
		database.StatusRejected, database.StatusDeleted,
	} {
		if !s.Valid() {
			t.Errorf("Valid(%q) = false", s)
		}
	}
	if database.StatusDraft.Valid() {
		t.Error("draft is render-only and must not be a persisted status")
	}
	if database.Status("archived").Valid() {
		t.Error("unknown status accepted")
	}
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to database.Status
		want     bool
	}{
		{database.StatusPending, database.StatusPublished, true},
		{database.StatusPending, database.StatusRejected, true},
		{database.StatusPending, database.StatusDeleted, true},
		{database.StatusPublished, database.StatusPending, true},
		{database.StatusPublished, database.StatusDeleted, true},
		{database.StatusRejected, database.StatusPending, true},
		{database.StatusPublished, database.StatusRejected, false},
		{database.StatusDeleted, database.StatusPending, false},
		{database.StatusDeleted, database.StatusPublished, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%q -> %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
