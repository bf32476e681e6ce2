package grading

import (
	"math"

	"github.com/gradehub/gradebook-api/internal/models"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
)

// DefaultMaxTotal is the maximum achievable total across the four
// assessment components (4 x 40).
const DefaultMaxTotal = 160

// MaxComponentMark bounds each individual component.
const MaxComponentMark = 40

// Letter grades, ordered best to worst.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

// Summary bundles the derived fields of a student record. The three values
// are always produced together so they cannot drift apart.
type Summary struct {
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

// ComputeTotal sums the four component marks.
func ComputeTotal(marks models.Marks) int {
	return marks.Quiz + marks.Assignment + marks.Midterm + marks.Final
}

// ComputePercentage converts a total into a percentage of maxTotal, rounded
// to two decimal places (half away from zero, matching UI display rules).
func ComputePercentage(total, maxTotal int) (float64, error) {
	if maxTotal <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "max total must be positive")
	}
	pct := float64(total) / float64(maxTotal) * 100
	return math.Round(pct*100) / 100, nil
}

// ComputeGrade maps a percentage onto a letter grade. Thresholds are
// evaluated high to low; boundaries are inclusive on the upper side.
func ComputeGrade(percentage float64) string {
	switch {
	case percentage >= 80:
		return GradeA
	case percentage >= 70:
		return GradeB
	case percentage >= 60:
		return GradeC
	case percentage >= 50:
		return GradeD
	default:
		return GradeF
	}
}

// DeriveSummary computes total, percentage and grade from marks against the
// default maximum. This is the only entry point callers should use to
// populate derived fields.
func DeriveSummary(marks models.Marks) Summary {
	return DeriveSummaryWithMax(marks, DefaultMaxTotal)
}

// DeriveSummaryWithMax is DeriveSummary with a caller-supplied maximum
// total. A non-positive maxTotal falls back to the default rather than
// erroring, so config typos cannot corrupt a roster.
func DeriveSummaryWithMax(marks models.Marks, maxTotal int) Summary {
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}
	total := ComputeTotal(marks)
	pct, _ := ComputePercentage(total, maxTotal)
	return Summary{Total: total, Percentage: pct, Grade: ComputeGrade(pct)}
}

// ValidateMarks rejects component marks outside [0, MaxComponentMark].
// Out-of-range values are an input error and are never clamped.
func ValidateMarks(marks models.Marks) error {
	components := []struct {
		name  string
		value int
	}{
		{"quiz", marks.Quiz},
		{"assignment", marks.Assignment},
		{"midterm", marks.Midterm},
		{"final", marks.Final},
	}
	for _, c := range components {
		if c.value < 0 || c.value > MaxComponentMark {
			return appErrors.Clone(appErrors.ErrValidation, c.name+" marks must be between 0 and 40")
		}
	}
	return nil
}
