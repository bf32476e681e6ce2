package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gradehub/gradebook-api/internal/models"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
)

type studentWriter interface {
	Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error)
	UpdateMarks(ctx context.Context, id string, req UpdateMarksRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type seedRecord struct {
	profile CreateStudentRequest
	marks   UpdateMarksRequest
}

// sampleRoster mirrors the demo dataset teachers use to try the dashboard.
// Derived fields are intentionally absent: they are recomputed through the
// grading engine on insert.
var sampleRoster = []seedRecord{
	{
		profile: CreateStudentRequest{Name: "Alice Johnson", Email: "alice.johnson@example.com", StudentID: "STU001", Class: models.Class10},
		marks:   UpdateMarksRequest{Quiz: 35, Assignment: 38, Midterm: 32, Final: 36},
	},
	{
		profile: CreateStudentRequest{Name: "Bob Smith", Email: "bob.smith@example.com", StudentID: "STU002", Class: models.Class10},
		marks:   UpdateMarksRequest{Quiz: 28, Assignment: 30, Midterm: 26, Final: 29},
	},
	{
		profile: CreateStudentRequest{Name: "Carol Davis", Email: "carol.davis@example.com", StudentID: "STU003", Class: models.Class9},
		marks:   UpdateMarksRequest{Quiz: 32, Assignment: 35, Midterm: 30, Final: 33},
	},
	{
		profile: CreateStudentRequest{Name: "David Wilson", Email: "david.wilson@example.com", StudentID: "STU004", Class: models.Class11},
		marks:   UpdateMarksRequest{Quiz: 22, Assignment: 25, Midterm: 20, Final: 24},
	},
	{
		profile: CreateStudentRequest{Name: "Emma Brown", Email: "emma.brown@example.com", StudentID: "STU005", Class: models.Class12},
		marks:   UpdateMarksRequest{Quiz: 15, Assignment: 18, Midterm: 14, Final: 17},
	},
	{
		profile: CreateStudentRequest{Name: "Frank Miller", Email: "frank.miller@example.com", StudentID: "STU006", Class: models.Class9},
		marks:   UpdateMarksRequest{Quiz: 8, Assignment: 12, Midterm: 10, Final: 9},
	},
}

// SeedResult reports the outcome of a seeding run.
type SeedResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// SeedService inserts the sample roster for demos and local development.
type SeedService struct {
	students studentWriter
	logger   *zap.Logger
}

// NewSeedService constructs a SeedService.
func NewSeedService(students studentWriter, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{students: students, logger: logger}
}

// Seed inserts every sample student that does not already exist. Records
// whose email or student ID is taken are skipped, so the operation is
// repeatable.
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	for _, record := range sampleRoster {
		student, err := s.students.Create(ctx, record.profile)
		if err != nil {
			if isDuplicate(err) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		if _, err := s.students.UpdateMarks(ctx, student.ID, record.marks); err != nil {
			// Remove the zero-marks record so the next run retries it
			// instead of skipping it as a duplicate.
			if delErr := s.students.Delete(ctx, student.ID); delErr != nil {
				s.logger.Warn("failed to roll back partially seeded student",
					zap.String("student_id", record.profile.StudentID), zap.Error(delErr))
			}
			return nil, err
		}
		result.Created++
	}
	s.logger.Info("sample roster seeded", zap.Int("created", result.Created), zap.Int("skipped", result.Skipped))
	return result, nil
}

func isDuplicate(err error) bool {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == appErrors.ErrDuplicateEmail.Code || appErr.Code == appErrors.ErrDuplicateStudentID.Code
}
