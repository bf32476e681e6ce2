package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gradehub/gradebook-api/internal/models"
)

// AnalyticsRepository aggregates roster statistics for the dashboard
// charts.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs an AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Counts returns the roster size and the number of passing students.
func (r *AnalyticsRepository) Counts(ctx context.Context) (total int, passing int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE percentage >= 50) AS passing FROM students`
	row := struct {
		Total   int `db:"total"`
		Passing int `db:"passing"`
	}{}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("count students: %w", err)
	}
	return row.Total, row.Passing, nil
}

// AveragePercentage returns the roster-wide mean percentage, 0 for an empty
// roster.
func (r *AnalyticsRepository) AveragePercentage(ctx context.Context) (float64, error) {
	const query = `SELECT COALESCE(AVG(percentage), 0) FROM students`
	var avg float64
	if err := r.db.GetContext(ctx, &avg, query); err != nil {
		return 0, fmt.Errorf("average percentage: %w", err)
	}
	return avg, nil
}

// GradeDistribution returns the per-letter histogram of current grades.
func (r *AnalyticsRepository) GradeDistribution(ctx context.Context) ([]models.GradeCount, error) {
	const query = `SELECT grade, COUNT(*) AS count FROM students GROUP BY grade ORDER BY grade`
	var counts []models.GradeCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("grade distribution: %w", err)
	}
	return counts, nil
}

// ComponentAverages returns the mean of each assessment component.
func (r *AnalyticsRepository) ComponentAverages(ctx context.Context) (*models.ComponentAverages, error) {
	const query = `SELECT COALESCE(AVG(quiz_marks), 0) AS avg_quiz,
        COALESCE(AVG(assignment_marks), 0) AS avg_assignment,
        COALESCE(AVG(midterm_marks), 0) AS avg_midterm,
        COALESCE(AVG(final_marks), 0) AS avg_final
        FROM students`
	var averages models.ComponentAverages
	if err := r.db.GetContext(ctx, &averages, query); err != nil {
		return nil, fmt.Errorf("component averages: %w", err)
	}
	return &averages, nil
}
