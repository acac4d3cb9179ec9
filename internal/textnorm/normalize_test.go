package textnorm_test

import (
	"testing"

	"github.com/civicsprep/backend/internal/textnorm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and trim", "  The Constitution  ", "the constitution"},
		{"hyphenated compound", "Twenty-Seven!", "27"},
		{"spaced compound", "twenty seven", "27"},
		{"compound keeps suffix", "twenty seven.", "27"},
		{"standalone words", "one hundred", "1 hundred"},
		{"teens", "Seventeen states", "17 states"},
		{"tens only", "fifty", "50"},
		{"parenthetical removed", "Washington (George)", "washington"},
		{"punctuation replaced", "freedom of speech, religion", "freedom of speech religion"},
		{"stray paren", "speech)", "speech"},
		{"word boundary", "someone", "someone"},
		{"underscore exposes compound", "thirty_five", "35"},
		{"digits untouched", "27", "27"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textnorm.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Twenty-Seven!",
		"twen(x)ty seven",
		"thirty_five and (the) forty--two",
		"  The  Bill of Rights.  ",
		"ninety-nine (99) red balloons",
		"one-two-three",
		"`~{speech}=",
	}

	for _, in := range inputs {
		once := textnorm.Normalize(in)
		twice := textnorm.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestEqual(t *testing.T) {
	if !textnorm.Equal("Twenty-Seven!", "27") {
		t.Error("expected Twenty-Seven! to equal 27")
	}
	if !textnorm.Equal("washington ", "Washington") {
		t.Error("expected case and whitespace to be ignored")
	}
	if textnorm.Equal("Lincoln", "Washington") {
		t.Error("expected different answers to differ")
	}
}

func TestComplete(t *testing.T) {
	answers := []string{"the Constitution", "the Bill of Rights"}

	got, ok := textnorm.Complete("the con", answers)
	if !ok || got != "the Constitution" {
		t.Errorf("expected the Constitution, got %q (ok=%v)", got, ok)
	}

	if _, ok := textnorm.Complete("the constitution", answers); ok {
		t.Error("expected no suggestion for a complete answer")
	}

	if _, ok := textnorm.Complete("   ", answers); ok {
		t.Error("expected no suggestion for blank input")
	}

	if _, ok := textnorm.Complete("declaration", answers); ok {
		t.Error("expected no suggestion for unrelated input")
	}
}
