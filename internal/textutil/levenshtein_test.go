package textutil

import (
	"math"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"same", "same", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := LevenshteinDistance(tt.b, tt.a); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestLevenshteinRatio(t *testing.T) {
	if got := LevenshteinRatio("same", "same"); got != 1.0 {
		t.Errorf("ratio(same, same) = %v, want 1.0", got)
	}
	if got := LevenshteinRatio("cat", "dog"); got >= 0.5 {
		t.Errorf("ratio(cat, dog) = %v, want < 0.5", got)
	}
	if got := LevenshteinRatio("", ""); got != 1.0 {
		t.Errorf("ratio(empty, empty) = %v, want 1.0", got)
	}
	if got := LevenshteinRatio("abc", ""); got != 0 {
		t.Errorf("ratio(abc, empty) = %v, want 0", got)
	}
	// One substitution in five characters.
	if got := LevenshteinRatio("linux", "linus"); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("ratio(linux, linus) = %v, want 0.8", got)
	}
}
