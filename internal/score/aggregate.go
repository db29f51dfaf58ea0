package score

import (
	"cooked/internal/schedule"
	"math"
)

// label — upper bound (inclusive) of a Cook Scale bucket and its name.
type label struct {
	max  int
	name string
}

var labels = []label{
	{20, "Raw"},
	{35, "Lightly Toasted"},
	{50, "Medium"},
	{65, "Well Done"},
	{80, "Extra Crispy"},
}

const burntLabel = "Absolutely Burnt"

// VerbalLabel maps an overall score to its Cook Scale name.
// Bounds are inclusive: 20 is "Raw", 21 is "Lightly Toasted".
func VerbalLabel(overall int) string {
	for _, l := range labels {
		if overall <= l.max {
			return l.name
		}
	}
	return burntLabel
}

// Aggregate combines per-course scores into the overall result.
// The score sum is normalized against the typical hard semester and capped at 100.
// Class order is preserved.
func (c *Calculator) Aggregate(classes []schedule.ClassScore) schedule.AnalysisResult {
	var sum, units float64
	for _, cs := range classes {
		sum += float64(cs.Score)
		units += cs.Units
	}

	overall := int(math.Round(sum / c.typicalHardSemester * 100))
	if overall > 100 {
		overall = 100
	}
	if overall < 0 {
		overall = 0
	}

	if classes == nil {
		classes = []schedule.ClassScore{}
	}

	return schedule.AnalysisResult{
		OverallScore: overall,
		VerbalLabel:  VerbalLabel(overall),
		TotalUnits:   units,
		Classes:      classes,
	}
}
