package flow_test

import (
	"database/sql"
	"testing"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
)

func storedAd() *database.Ad {
	return &database.Ad{
		ID:          7,
		UserID:      42,
		Title:       "Старый диван",
		Description: "Почти новый",
		PriceText:   "1000 ₽",
		Category:    "Мебель",
		City:        "Центр",
		Photos:      database.StringList{"old-1", "old-2"},
	}
}

func TestCreateSessionPhotoCap(t *testing.T) {
	t.Parallel()

	sess := flow.NewCreateSession(42, "seller")
	for i := 0; i < flow.MaxPhotos; i++ {
		if _, ok := sess.AddPhoto("photo"); !ok {
			t.Fatalf("photo %d rejected below the cap", i+1)
		}
	}
	if count, ok := sess.AddPhoto("overflow"); ok {
		t.Errorf("photo above the cap accepted, count = %d", count)
	}
	if len(sess.Draft.Photos) != flow.MaxPhotos {
		t.Errorf("draft has %d photos, want %d", len(sess.Draft.Photos), flow.MaxPhotos)
	}
}

func TestEditSessionFirstNewPhotoReplacesSet(t *testing.T) {
	t.Parallel()

	sess := flow.NewEditSession(42, "seller", storedAd())

	count, ok := sess.AddPhoto("new-1")
	if !ok || count != 1 {
		t.Fatalf("AddPhoto = %d, %v; want 1, true", count, ok)
	}

	sess.FinishPhotos()
	if len(sess.Draft.Photos) != 1 || sess.Draft.Photos[0] != "new-1" {
		t.Errorf("photos = %v, want only the new upload", sess.Draft.Photos)
	}
}

func TestEditSessionNoUploadsKeepsOriginals(t *testing.T) {
	t.Parallel()

	sess := flow.NewEditSession(42, "seller", storedAd())
	sess.FinishPhotos()

	if len(sess.Draft.Photos) != 2 {
		t.Fatalf("photos = %v, want the original two", sess.Draft.Photos)
	}
}

func TestEditSessionSeedsDraft(t *testing.T) {
	t.Parallel()

	ad := storedAd()
	ad.PriceValue = sql.NullFloat64{Float64: 1000, Valid: true}
	sess := flow.NewEditSession(42, "seller", ad)

	if sess.AdID != ad.ID {
		t.Errorf("AdID = %d, want %d", sess.AdID, ad.ID)
	}
	if sess.Draft.Title != ad.Title || sess.Draft.Category != ad.Category {
		t.Errorf("draft not seeded: %+v", sess.Draft)
	}
	if sess.Draft.PriceValue == nil || *sess.Draft.PriceValue != 1000 {
		t.Errorf("price value not seeded: %v", sess.Draft.PriceValue)
	}
}

func TestStepNext(t *testing.T) {
	t.Parallel()

	order := []flow.Step{
		flow.StepTitle, flow.StepDescription, flow.StepPrice, flow.StepCategory,
		flow.StepCity, flow.StepPhone, flow.StepPhotos, flow.StepConfirm,
	}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Errorf("%v.Next() = %v, want %v", order[i], got, order[i+1])
		}
	}
	if got := flow.StepConfirm.Next(); got != flow.StepConfirm {
		t.Errorf("confirm is not terminal, Next() = %v", got)
	}
}

func TestManagerLifecycle(t *testing.T) {
	t.Parallel()

	m := flow.NewManager()
	if m.Get(42) != nil {
		t.Fatal("expected no session for an idle user")
	}

	m.Put(42, flow.NewCreateSession(42, "seller"))
	if sess := m.Get(42); sess == nil || sess.Mode != flow.ModeCreating {
		t.Fatalf("Get = %+v, want active creation session", sess)
	}

	// Starting a new flow replaces the active one.
	m.Put(42, flow.NewSearchSession(42))
	if sess := m.Get(42); sess == nil || sess.Mode != flow.ModeSearching {
		t.Fatalf("Get = %+v, want search session", sess)
	}

	m.Delete(42)
	if m.Get(42) != nil {
		t.Error("session survived Delete")
	}
}
