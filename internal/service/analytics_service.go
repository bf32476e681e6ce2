package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/gradehub/gradebook-api/internal/grading"
	"github.com/gradehub/gradebook-api/internal/models"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
)

const summaryCacheKey = "analytics:summary"

type analyticsRepository interface {
	Counts(ctx context.Context) (total int, passing int, err error)
	AveragePercentage(ctx context.Context) (float64, error)
	GradeDistribution(ctx context.Context) ([]models.GradeCount, error)
	ComponentAverages(ctx context.Context) (*models.ComponentAverages, error)
}

// AnalyticsService produces roster-wide aggregates for the dashboard
// charts, with a Redis-backed cache in front of the store queries.
type AnalyticsService struct {
	repo   analyticsRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, logger: logger}
}

// Summary returns the roster summary and whether it was served from cache.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.RosterSummary, bool, error) {
	var cached models.RosterSummary
	if hit, _ := s.cache.Get(ctx, summaryCacheKey, &cached); hit {
		return &cached, true, nil
	}

	total, passing, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to count students")
	}
	avg, err := s.repo.AveragePercentage(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to average percentages")
	}
	distribution, err := s.repo.GradeDistribution(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load grade distribution")
	}
	averages, err := s.repo.ComponentAverages(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load component averages")
	}

	summary := &models.RosterSummary{
		TotalStudents:     total,
		PassingStudents:   passing,
		AveragePercentage: round2(avg),
		GradeDistribution: fillDistribution(distribution),
		ComponentAverages: models.ComponentAverages{
			Quiz:       round2(averages.Quiz),
			Assignment: round2(averages.Assignment),
			Midterm:    round2(averages.Midterm),
			Final:      round2(averages.Final),
		},
	}
	if total > 0 {
		summary.PassRate = round2(float64(passing) / float64(total) * 100)
	}

	if err := s.cache.Set(ctx, summaryCacheKey, summary); err != nil {
		s.logger.Warn("failed to cache roster summary", zap.Error(err))
	}
	return summary, false, nil
}

// fillDistribution normalises the histogram so every letter grade appears,
// zero counts included, in A..F order.
func fillDistribution(counts []models.GradeCount) []models.GradeCount {
	byGrade := make(map[string]int, len(counts))
	for _, c := range counts {
		byGrade[c.Grade] = c.Count
	}
	letters := []string{grading.GradeA, grading.GradeB, grading.GradeC, grading.GradeD, grading.GradeF}
	full := make([]models.GradeCount, 0, len(letters))
	for _, letter := range letters {
		full = append(full, models.GradeCount{Grade: letter, Count: byGrade[letter]})
	}
	return full
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
