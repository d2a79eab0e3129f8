package ats

import "math"

const (
	ThresholdExcellent = 80
	ThresholdGood      = 60
	ThresholdFair      = 40
)

const (
	LabelExcellent        = "Excellent"
	LabelGood             = "Good"
	LabelFair             = "Fair"
	LabelNeedsImprovement = "Needs Improvement"
)

// Label is the qualitative rating shown next to a score.
func Label(score int) string {
	switch {
	case score >= ThresholdExcellent:
		return LabelExcellent
	case score >= ThresholdGood:
		return LabelGood
	case score >= ThresholdFair:
		return LabelFair
	default:
		return LabelNeedsImprovement
	}
}

// TagColor is the badge color for a score on the same thresholds.
func TagColor(score int) string {
	switch {
	case score >= ThresholdExcellent:
		return "green"
	case score >= ThresholdGood:
		return "gold"
	case score >= ThresholdFair:
		return "orange"
	default:
		return "red"
	}
}

// KeywordCoverage is the share of matched keywords, or nil when there are none.
func KeywordCoverage(covered, missing int) *int {
	total := covered + missing
	if total <= 0 {
		return nil
	}
	pct := int(math.Round(float64(covered) / float64(total) * 100))
	return &pct
}
