package render

import (
	"testing"

	"github.com/newthinker/screener/internal/core"
)

func TestScoreClass(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10, BandExcellent},
		{8, BandExcellent},
		{7.99, BandGood},
		{6.5, BandGood},
		{6.49, BandAverage},
		{5, BandAverage},
		{4.99, BandPoor},
		{0, BandPoor},
		{-1, BandPoor},
	}

	for _, tt := range tests {
		if got := ScoreClass(tt.score); got != tt.want {
			t.Errorf("ScoreClass(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScoreClass_BandsCoverRange(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		s := float64(i) / 100
		got := ScoreClass(s)

		var want string
		switch {
		case s >= 8:
			want = BandExcellent
		case 6.5 <= s && s < 8:
			want = BandGood
		case 5 <= s && s < 6.5:
			want = BandAverage
		default:
			want = BandPoor
		}
		if got != want {
			t.Fatalf("ScoreClass(%v) = %s, want %s", s, got, want)
		}
	}
}

func TestScoreCSS(t *testing.T) {
	if got := ScoreCSS(9); got != "score-excellent" {
		t.Errorf("expected score-excellent, got %s", got)
	}
	if got := ScoreCSS(3); got != "score-poor" {
		t.Errorf("expected score-poor, got %s", got)
	}
}

func TestBadgeClass(t *testing.T) {
	tests := []struct {
		rec  core.Recommendation
		want string
	}{
		{core.RecommendationStrongBuy, "badge-strong-buy"},
		{core.RecommendationBuy, "badge-buy"},
		{core.RecommendationModerateBuy, "badge-moderate-buy"},
		{core.RecommendationHold, "badge-hold"},
		{core.RecommendationAvoid, "badge-avoid"},
	}

	for _, tt := range tests {
		if got := BadgeClass(tt.rec); got != tt.want {
			t.Errorf("BadgeClass(%q) = %s, want %s", tt.rec, got, tt.want)
		}
	}
}

func TestBadgeClass_UnknownFallsBackToHold(t *testing.T) {
	for _, rec := range []core.Recommendation{"", "Sell", "STRONG BUY", "strong buy", "Buy "} {
		if got := BadgeClass(rec); got != "badge-hold" {
			t.Errorf("BadgeClass(%q) = %s, want badge-hold", rec, got)
		}
	}
}
