package handlers

import "testing"

func TestCommandArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"/delete 42", "42"},
		{"/delete", ""},
		{"/delete   ", ""},
		{"/search старый диван", "старый диван"},
		{"  /view 7  ", "7"},
	}
	for _, tt := range tests {
		if got := commandArg(tt.input); got != tt.want {
			t.Errorf("commandArg(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseIDArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseIDArg(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseIDArg(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCallbackIDPart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"mydel:42", "42"},
		{"ad:ap:7", "7"},
		{"noseparator", ""},
		{"trailing:", ""},
	}
	for _, tt := range tests {
		if got := callbackIDPart(tt.input); got != tt.want {
			t.Errorf("callbackIDPart(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
