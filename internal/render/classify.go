// Package render holds the pure mapping functions the dashboard uses to turn
// backend records into display values.
package render

import "github.com/newthinker/screener/internal/core"

// Score bands.
const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandAverage   = "average"
	BandPoor      = "poor"
)

// ScoreClass bands a 0-10 score. Each band includes its lower bound.
func ScoreClass(score float64) string {
	switch {
	case score >= 8:
		return BandExcellent
	case score >= 6.5:
		return BandGood
	case score >= 5:
		return BandAverage
	default:
		return BandPoor
	}
}

// ScoreCSS returns the CSS class for a score band.
func ScoreCSS(score float64) string {
	return "score-" + ScoreClass(score)
}

var badgeClasses = map[core.Recommendation]string{
	core.RecommendationStrongBuy:   "badge-strong-buy",
	core.RecommendationBuy:         "badge-buy",
	core.RecommendationModerateBuy: "badge-moderate-buy",
	core.RecommendationHold:        "badge-hold",
	core.RecommendationAvoid:       "badge-avoid",
}

// BadgeClass maps a recommendation to its badge class. Unrecognized values
// get the Hold badge.
func BadgeClass(rec core.Recommendation) string {
	if !rec.IsKnown() {
		return badgeClasses[core.RecommendationHold]
	}
	return badgeClasses[rec]
}
