package align

import (
	"math"
	"strings"
	"testing"
)

func TestWordMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"free", "free", true},
		{"software", "soft", true},
		{"soft", "software", true},
		{"linux", "linus", true},
		{"operating", "operatin", true},
		{"cat", "dog", false},
		{"light", "lite", false},
		{"commons", "common", true},
	}
	for _, tt := range tests {
		if got := WordMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("WordMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPhraseScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		anchor    string
		want      float64
	}{
		{"identical", "the quick fox", "the quick fox", 1},
		{"one gap", "a b x d", "a b c d", (0.6*3 + 0.4*2) / 4},
		{"shorter candidate", "the", "the quick", (0.6 + 0.4) / 2},
		{"longer candidate", "the quick brown fox", "the quick", (0.6*2 + 0.4*2) / 4},
		{"disjoint", "alpha beta", "gamma delta", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhraseScore(strings.Fields(tt.candidate), strings.Fields(tt.anchor))
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("PhraseScore = %v, want %v", got, tt.want)
			}
		})
	}
	if got := PhraseScore(nil, nil); got != 0 {
		t.Errorf("PhraseScore(nil, nil) = %v, want 0", got)
	}
}

func TestMatcherAgreesWithPhraseScore(t *testing.T) {
	seq := NewSequence(timed("so andy was like i have seen the light software should be free at least the os", 0, 1))
	anchor := AnchorPhrase(strings.Fields("andy was like ive seen the light software should be"))
	m := newMatcher(seq, anchor)

	for from := 0; from < seq.Len(); from++ {
		for n := 1; n <= MaxAnchorWords && from+n <= seq.Len(); n++ {
			want := PhraseScore(seq.clean[from:from+n], anchor)
			if got := m.score(from, n); got != want {
				t.Fatalf("score(%d, %d) = %v, PhraseScore = %v", from, n, got, want)
			}
		}
	}
}

func TestStartThresholdBoundary(t *testing.T) {
	if !startAccepted(0.2) {
		t.Error("score of exactly 0.2 must be accepted")
	}
	if startAccepted(0.1999) {
		t.Error("score of 0.1999 must be rejected")
	}
}
