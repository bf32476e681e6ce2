package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradehub/gradebook-api/internal/models"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	total    int
	passing  int
	avg      float64
	dist     []models.GradeCount
	averages models.ComponentAverages
	queries  int
}

func (m *mockAnalyticsRepo) Counts(ctx context.Context) (int, int, error) {
	m.queries++
	return m.total, m.passing, nil
}

func (m *mockAnalyticsRepo) AveragePercentage(ctx context.Context) (float64, error) {
	return m.avg, nil
}

func (m *mockAnalyticsRepo) GradeDistribution(ctx context.Context) ([]models.GradeCount, error) {
	return m.dist, nil
}

func (m *mockAnalyticsRepo) ComponentAverages(ctx context.Context) (*models.ComponentAverages, error) {
	avgs := m.averages
	return &avgs, nil
}

type mockCacheRepo struct {
	entries map[string][]byte
	deleted []string
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{entries: make(map[string][]byte)}
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	m.entries = make(map[string][]byte)
	return nil
}

func TestAnalyticsServiceSummary(t *testing.T) {
	repo := &mockAnalyticsRepo{
		total:   6,
		passing: 4,
		avg:     61.456,
		dist: []models.GradeCount{
			{Grade: "A", Count: 1},
			{Grade: "B", Count: 2},
			{Grade: "F", Count: 1},
		},
		averages: models.ComponentAverages{Quiz: 23.333, Assignment: 26.0, Midterm: 22.0, Final: 24.667},
	}
	svc := NewAnalyticsService(repo, nil, zap.NewNop())

	summary, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 6, summary.TotalStudents)
	assert.Equal(t, 4, summary.PassingStudents)
	assert.Equal(t, 66.67, summary.PassRate)
	assert.Equal(t, 61.46, summary.AveragePercentage)
	assert.Equal(t, 23.33, summary.ComponentAverages.Quiz)
	assert.Equal(t, 24.67, summary.ComponentAverages.Final)
}

func TestAnalyticsServiceSummaryFillsDistribution(t *testing.T) {
	repo := &mockAnalyticsRepo{
		total:   3,
		passing: 3,
		dist:    []models.GradeCount{{Grade: "A", Count: 3}},
	}
	svc := NewAnalyticsService(repo, nil, zap.NewNop())

	summary, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.GradeDistribution, 5)
	assert.Equal(t, models.GradeCount{Grade: "A", Count: 3}, summary.GradeDistribution[0])
	assert.Equal(t, models.GradeCount{Grade: "B", Count: 0}, summary.GradeDistribution[1])
	assert.Equal(t, models.GradeCount{Grade: "F", Count: 0}, summary.GradeDistribution[4])
}

func TestAnalyticsServiceSummaryEmptyRoster(t *testing.T) {
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, nil, zap.NewNop())

	summary, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalStudents)
	assert.Equal(t, 0.0, summary.PassRate)
	assert.Equal(t, 0.0, summary.AveragePercentage)
}

func TestAnalyticsServiceSummaryServedFromCache(t *testing.T) {
	repo := &mockAnalyticsRepo{total: 2, passing: 2}
	cacheRepo := newMockCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewAnalyticsService(repo, cache, zap.NewNop())

	_, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)

	summary, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, 2, summary.TotalStudents)
	assert.Equal(t, 1, repo.queries, "second call must not hit the store")
}

func TestStudentMutationInvalidatesAnalyticsCache(t *testing.T) {
	cacheRepo := newMockCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	repo := newMockStudentRepo()
	svc := NewStudentService(repo, cache, NewValidator(), zap.NewNop(), 0)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Name: "Alice", Email: "alice@example.com", StudentID: "STU001", Class: models.Class10,
	})
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, "analytics:*")
}
