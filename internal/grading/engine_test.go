package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradehub/gradebook-api/internal/models"
)

func TestComputeTotal(t *testing.T) {
	marks := models.Marks{Quiz: 35, Assignment: 38, Midterm: 32, Final: 36}
	assert.Equal(t, 141, ComputeTotal(marks))
	assert.Equal(t, 0, ComputeTotal(models.Marks{}))
}

func TestComputePercentage(t *testing.T) {
	pct, err := ComputePercentage(80, 160)
	require.NoError(t, err)
	assert.Equal(t, 50.00, pct)

	pct, err = ComputePercentage(141, 160)
	require.NoError(t, err)
	assert.Equal(t, 88.13, pct)

	_, err = ComputePercentage(80, 0)
	require.Error(t, err)
	_, err = ComputePercentage(80, -5)
	require.Error(t, err)
}

func TestComputeGradeBoundaries(t *testing.T) {
	cases := []struct {
		percentage float64
		expected   string
	}{
		{100, GradeA},
		{80.00, GradeA},
		{79.99, GradeB},
		{70.00, GradeB},
		{69.99, GradeC},
		{60.00, GradeC},
		{59.99, GradeD},
		{50.00, GradeD},
		{49.99, GradeF},
		{0, GradeF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, ComputeGrade(tc.percentage), "percentage %.2f", tc.percentage)
	}
}

func TestDeriveSummary(t *testing.T) {
	summary := DeriveSummary(models.Marks{Quiz: 35, Assignment: 38, Midterm: 32, Final: 36})
	assert.Equal(t, 141, summary.Total)
	assert.Equal(t, 88.13, summary.Percentage)
	assert.Equal(t, GradeA, summary.Grade)

	summary = DeriveSummary(models.Marks{})
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.00, summary.Percentage)
	assert.Equal(t, GradeF, summary.Grade)
}

func TestDeriveSummaryIdempotent(t *testing.T) {
	marks := models.Marks{Quiz: 28, Assignment: 30, Midterm: 26, Final: 29}
	first := DeriveSummary(marks)
	second := DeriveSummary(marks)
	assert.Equal(t, first, second)
}

func TestDeriveSummaryWithMaxFallback(t *testing.T) {
	marks := models.Marks{Quiz: 40, Assignment: 40, Midterm: 40, Final: 40}
	summary := DeriveSummaryWithMax(marks, 0)
	assert.Equal(t, 100.00, summary.Percentage)
	assert.Equal(t, GradeA, summary.Grade)
}

func TestDeriveSummaryConsistency(t *testing.T) {
	for quiz := 0; quiz <= 40; quiz += 8 {
		for final := 0; final <= 40; final += 8 {
			marks := models.Marks{Quiz: quiz, Assignment: 20, Midterm: 20, Final: final}
			summary := DeriveSummary(marks)
			assert.Equal(t, quiz+20+20+final, summary.Total)
			assert.Equal(t, ComputeGrade(summary.Percentage), summary.Grade)
		}
	}
}

func TestValidateMarks(t *testing.T) {
	require.NoError(t, ValidateMarks(models.Marks{Quiz: 0, Assignment: 40, Midterm: 20, Final: 40}))

	err := ValidateMarks(models.Marks{Quiz: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiz")

	err = ValidateMarks(models.Marks{Midterm: 41})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "midterm")
}
