package flow_test

import (
	"strings"
	"testing"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantText  string
		wantValue float64
		wantNil   bool
		wantOK    bool
	}{
		{
			name:      "plain integer",
			input:     "1500",
			wantText:  "1500 ₽",
			wantValue: 1500,
			wantOK:    true,
		},
		{
			name:      "decimal with dot",
			input:     "99.50",
			wantText:  "99.50 ₽",
			wantValue: 99.5,
			wantOK:    true,
		},
		{
			name:      "comma as decimal separator",
			input:     "99,50",
			wantText:  "99.50 ₽",
			wantValue: 99.5,
			wantOK:    true,
		},
		{
			name:      "spaces as thousands separators",
			input:     "1 500 000",
			wantText:  "1500000 ₽",
			wantValue: 1500000,
			wantOK:    true,
		},
		{
			name:     "negotiable lowercase",
			input:    "договорная",
			wantText: "Договорная",
			wantNil:  true,
			wantOK:   true,
		},
		{
			name:     "free mixed case",
			input:    "БЕСПЛАТНО",
			wantText: "Бесплатно",
			wantNil:  true,
			wantOK:   true,
		},
		{
			name:   "three decimal places rejected",
			input:  "10.123",
			wantOK: false,
		},
		{
			name:   "negative rejected",
			input:  "-5",
			wantOK: false,
		},
		{
			name:   "arbitrary text rejected",
			input:  "дорого",
			wantOK: false,
		},
		{
			name:   "empty rejected",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, value, ok := flow.ParsePrice(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParsePrice(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if text != tt.wantText {
				t.Errorf("ParsePrice(%q) text = %q, want %q", tt.input, text, tt.wantText)
			}
			if tt.wantNil {
				if value != nil {
					t.Errorf("ParsePrice(%q) value = %v, want nil", tt.input, *value)
				}
				return
			}
			if value == nil || *value != tt.wantValue {
				t.Errorf("ParsePrice(%q) value = %v, want %v", tt.input, value, tt.wantValue)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "trims whitespace", input: "  Диван  ", want: "Диван", wantOK: true},
		{name: "empty rejected", input: "   ", wantOK: false},
		{name: "at limit accepted", input: strings.Repeat("я", 100), want: strings.Repeat("я", 100), wantOK: true},
		{name: "over limit rejected", input: strings.Repeat("я", 101), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := flow.ValidateTitle(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ValidateTitle(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ValidateTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	if _, ok := flow.ValidatePhone(strings.Repeat("1", 31)); ok {
		t.Error("ValidatePhone accepted a 31-character value")
	}
	if phone, ok := flow.ValidatePhone(" +7 900 000-00-00 "); !ok || phone != "+7 900 000-00-00" {
		t.Errorf("ValidatePhone = %q, %v", phone, ok)
	}
	// Empty phone is a valid "not provided" value.
	if phone, ok := flow.ValidatePhone(""); !ok || phone != "" {
		t.Errorf("ValidatePhone(\"\") = %q, %v", phone, ok)
	}
}

func TestValidCategory(t *testing.T) {
	t.Parallel()

	for _, category := range flow.Categories {
		if !flow.ValidCategory(category) {
			t.Errorf("ValidCategory(%q) = false", category)
		}
	}
	if flow.ValidCategory("Недвижимость") {
		t.Error("ValidCategory accepted a category outside the fixed set")
	}
}
