package util

import "testing"

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "CLAMO", 5},
		{"CLAMO", "", 5},
		{"CLAMO", "CLAMO", 0},
		{"CLAM", "CLAMO", 1},
		{"CLAMI", "CLAMO", 1},
		{"CALMO", "CLAMO", 2},
		{"PENTH", "CLAMO", 5},
		{"KITTEN", "SITTING", 3},
	}
	for _, tc := range cases {
		if got := Levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("Levenshtein(%q,%q)=%d want %d", tc.a, tc.b, got, tc.want)
		}
		if got := Levenshtein(tc.b, tc.a); got != tc.want {
			t.Fatalf("not symmetric for %q,%q", tc.a, tc.b)
		}
	}
}

func TestIsCanonicalCode(t *testing.T) {
	cases := map[string]bool{
		"CLAMO334":  true,
		"CLAMO1":    true,
		"CLAMO":     false,
		"CLAM0334":  false,
		"CLAMO 334": false,
		"CLAMOX334": false,
		"clamo334":  false,
		"CLAMO33A":  false,
	}
	for in, want := range cases {
		if got := IsCanonicalCode(in); got != want {
			t.Fatalf("IsCanonicalCode(%q)=%v want %v", in, got, want)
		}
	}
}

func TestCharacterClasses(t *testing.T) {
	in := "CLAM0-33 4!"
	if got := Letters(in); got != "CLAM" {
		t.Fatalf("letters=%q", got)
	}
	if got := Digits(in); got != "0334" {
		t.Fatalf("digits=%q", got)
	}
	if got := Compact(in); got != "CLAM0334" {
		t.Fatalf("compact=%q", got)
	}
	if got := LeadingLetters("VAVIV123X"); got != "VAVIV" {
		t.Fatalf("leading=%q", got)
	}
	if got := LeadingLetters("123"); got != "" {
		t.Fatalf("leading=%q", got)
	}
}

func TestFoldLower(t *testing.T) {
	if got := FoldLower("MIÉRCOLES 12"); got != "miercoles 12" {
		t.Fatalf("got %q", got)
	}
	if got := FoldLower("Sábado"); got != "sabado" {
		t.Fatalf("got %q", got)
	}
}

func TestLooksLike(t *testing.T) {
	if !LooksLike('0', 'O') || !LooksLike('1', 'L') || !LooksLike('5', 'S') {
		t.Fatal("expected look-alike")
	}
	if LooksLike('0', 'A') || LooksLike('3', 'E') {
		t.Fatal("unexpected look-alike")
	}
}
