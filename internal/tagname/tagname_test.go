package tagname

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "work", want: "work"},
		{in: "  Important  ", want: "important"},
		{in: "IMPORTANT", want: "important"},
		{in: "\t\nUrgent\r\n", want: "urgent"},
		{in: "重要", want: "重要"},
		{in: "ユニークタグ", want: "ユニークタグ"},
		{in: "   ", want: ""},
		{in: "", want: ""},
		{in: "my-tag_2", want: "my-tag_2"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"  MiXeD Case ", "重要", "ﾀｸﾞ", "a-b_c", "  "} {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q vs %q", s, once, twice)
		}
	}
}

func TestValidateAccepts(t *testing.T) {
	valid := []string{
		"a",                    // minimum length
		strings.Repeat("a", 20), // maximum length
		strings.Repeat("あ", 20), // max length counts runes, not bytes
		"work",
		"tag123",
		"my-tag",
		"my_tag",
		"しごと",
		"カタカナ",
		"ラーメン", // prolonged sound mark
		"重要",
		"仕事todo",
	}
	for _, name := range valid {
		if err := Validate(name); err != nil {
			t.Fatalf("Validate(%q)=%v, want nil", name, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		want error
	}{
		{name: "", want: ErrEmpty},
		{name: strings.Repeat("a", 21), want: ErrTooLong},
		{name: strings.Repeat("あ", 21), want: ErrTooLong},
		{name: "has space", want: ErrInvalidChar},
		{name: "bad!", want: ErrInvalidChar},
		{name: "invalid@tag", want: ErrInvalidChar},
		{name: "ａｂｃ", want: ErrInvalidChar},  // full-width letters
		{name: "１２３", want: ErrInvalidChar}, // full-width digits
		{name: "tag,", want: ErrInvalidChar},
		{name: "🔥", want: ErrInvalidChar},
		{name: "半角ｶﾅ", want: ErrInvalidChar},
	}
	for _, tt := range tests {
		if err := Validate(tt.name); !errors.Is(err, tt.want) {
			t.Fatalf("Validate(%q)=%v want %v", tt.name, err, tt.want)
		}
	}
}

func TestValidateRunsOnNormalizedForm(t *testing.T) {
	// Whitespace-only input normalizes to the empty string and fails as empty.
	if err := Validate(Normalize("   \t ")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	// Surrounding whitespace is gone after Normalize, so the name passes.
	if err := Validate(Normalize("  ok  ")); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}
