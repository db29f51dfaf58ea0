package score

import (
	"cooked/internal/schedule"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// STEMBase — base difficulty of a STEM course before professor and unit adjustments.
	STEMBase = 60.0
	// HumanitiesBase — base difficulty of any non-STEM course.
	HumanitiesBase = 30.0
	// StandardUnits — unit count of a standard course; the unit multiplier is units/StandardUnits.
	StandardUnits = 4.0
	// TypicalHardSemester — the raw score sum that maps to 100 on the Cook Scale:
	// 18 units of STEM courses (60 base) taught by professors with a 1.5 factor.
	// It is a tuning choice, not a derived value.
	TypicalHardSemester = 18 * STEMBase * 1.5
	// MaxClassScore — upper bound of a single course score.
	MaxClassScore = math.MaxInt32
)

// Calculator turns course metadata and professor ratings into Cook Scale scores.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	// typicalHardSemester — normalization constant used by Aggregate.
	typicalHardSemester float64
}

// ScoreClass computes the integer score of a single course and an explanation
// that states every factor applied, so the arithmetic can be checked by hand.
//
// The professor factor is (0.4*qualityFactor + 0.4*difficultyFactor + 0.2*wtaFactor) * 2
// and is not clamped: well-rated, easy professors can push it below 0.5.
// A nil rating and a rating with zero reviews both leave the base unchanged.
// The unit clause is only added when the unit multiplier differs from 1.
func (c *Calculator) ScoreClass(input schedule.ClassInput, courseType schedule.CourseType, rating *schedule.ProfessorRating) (int, string) {
	var explanation strings.Builder

	base, label := HumanitiesBase, schedule.CourseTypeHumanities
	if courseType == schedule.CourseTypeSTEM {
		base, label = STEMBase, schedule.CourseTypeSTEM
	}
	fmt.Fprintf(&explanation, "Base difficulty %s (%s).", formatNumber(base), label)

	if rating.HasData() {
		factor := ProfessorFactor(rating)
		base *= factor
		fmt.Fprintf(&explanation, " Professor multiplier %.2fx (quality %.1f/5, difficulty %.1f/5, would take again %s%%).",
			factor, rating.Quality, rating.Difficulty, formatNumber(rating.WouldTakeAgain))
	} else {
		explanation.WriteString(" No professor data, base unchanged.")
	}

	unitMultiplier := input.Units / StandardUnits
	final := base * unitMultiplier
	if unitMultiplier != 1 {
		fmt.Fprintf(&explanation, " Unit multiplier %.2fx (%s units).", unitMultiplier, formatNumber(input.Units))
	}

	return saturate(math.Round(final)), explanation.String()
}

// saturate converts a rounded score to int, keeping it within 0..MaxClassScore.
func saturate(v float64) int {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= MaxClassScore:
		return MaxClassScore
	default:
		return int(v)
	}
}

// ProfessorFactor converts a rating into a difficulty multiplier.
// The caller must make sure the rating has data.
func ProfessorFactor(rating *schedule.ProfessorRating) float64 {
	qualityFactor := (6 - rating.Quality) / 5
	difficultyFactor := rating.Difficulty / 5
	wtaFactor := (100 - rating.WouldTakeAgain) / 100
	return (qualityFactor*0.4 + difficultyFactor*0.4 + wtaFactor*0.2) * 2
}

// TypicalHardSemester returns the normalization constant in use.
func (c *Calculator) TypicalHardSemester() float64 {
	return c.typicalHardSemester
}

// NewCalculator creates a calculator normalizing against typicalHardSemester.
// A non-positive value selects the TypicalHardSemester default.
func NewCalculator(typicalHardSemester float64) *Calculator {
	if typicalHardSemester <= 0 {
		typicalHardSemester = TypicalHardSemester
	}
	return &Calculator{typicalHardSemester: typicalHardSemester}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
