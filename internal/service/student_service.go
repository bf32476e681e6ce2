package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gradehub/gradebook-api/internal/grading"
	"github.com/gradehub/gradebook-api/internal/models"
	"github.com/gradehub/gradebook-api/internal/roster"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
)

// analyticsCachePattern covers every cached roster aggregate; any mutation
// invalidates the lot rather than patching incrementally.
const analyticsCachePattern = "analytics:*"

type studentRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateProfile(ctx context.Context, student *models.Student) error
	UpdateMarks(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// CreateStudentRequest holds payload for creating roster records.
type CreateStudentRequest struct {
	Name        string       `json:"name" validate:"required"`
	Email       string       `json:"email" validate:"required,email"`
	StudentID   string       `json:"studentId" validate:"required,student_id"`
	Class       models.Class `json:"class" validate:"required,class"`
	PhoneNumber string       `json:"phoneNumber" validate:"omitempty,phone"`
}

// UpdateProfileRequest carries a partial profile update. Only non-nil
// fields are applied.
type UpdateProfileRequest struct {
	Name        *string       `json:"name" validate:"omitempty,min=1"`
	Email       *string       `json:"email" validate:"omitempty,email"`
	StudentID   *string       `json:"studentId" validate:"omitempty,student_id"`
	Class       *models.Class `json:"class" validate:"omitempty,class"`
	PhoneNumber *string       `json:"phoneNumber" validate:"omitempty,phone"`
}

// UpdateMarksRequest replaces the four component marks. Missing fields
// default to zero.
type UpdateMarksRequest struct {
	Quiz       int `json:"quiz"`
	Assignment int `json:"assignment"`
	Midterm    int `json:"midterm"`
	Final      int `json:"final"`
}

// StudentService handles roster use-cases.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	maxTotal  int
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, maxTotal int) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxTotal <= 0 {
		maxTotal = grading.DefaultMaxTotal
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger, maxTotal: maxTotal}
}

// List returns the roster view for the given query. The full roster is
// refetched and projected in memory on every call.
func (s *StudentService) List(ctx context.Context, q roster.Query) ([]models.Student, error) {
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load roster")
	}
	return roster.ApplyView(students, q), nil
}

// Get returns a single roster record.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
	}
	return student, nil
}

// GetByEmail returns the roster record matching the email. Students use
// this to view their own results.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no student record for this account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new roster record with zero marks. Format checks are
// batched so the caller sees every field error at once; the duplicate
// checks run afterwards and abort on the first hit, since each one costs a
// store round trip.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	emailTaken, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check email uniqueness")
	}
	if emailTaken {
		return nil, appErrors.ErrDuplicateEmail
	}

	idTaken, err := s.repo.ExistsByStudentID(ctx, req.StudentID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check student ID uniqueness")
	}
	if idTaken {
		return nil, appErrors.ErrDuplicateStudentID
	}

	summary := grading.DeriveSummaryWithMax(models.Marks{}, s.maxTotal)
	student := &models.Student{
		Name:        req.Name,
		Email:       req.Email,
		StudentID:   req.StudentID,
		Class:       req.Class,
		PhoneNumber: req.PhoneNumber,
		Total:       summary.Total,
		Percentage:  summary.Percentage,
		Grade:       summary.Grade,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create student")
	}

	s.invalidateAnalytics(ctx)
	s.logger.Info("student created", zap.String("id", student.ID), zap.String("student_id", student.StudentID))
	return student, nil
}

// UpdateProfile applies a partial identity update. Marks and derived
// fields are never touched here.
func (s *StudentService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != student.Email {
		taken, err := s.repo.ExistsByEmail(ctx, *req.Email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check email uniqueness")
		}
		if taken {
			return nil, appErrors.ErrDuplicateEmail
		}
		student.Email = *req.Email
	}
	if req.StudentID != nil && *req.StudentID != student.StudentID {
		taken, err := s.repo.ExistsByStudentID(ctx, *req.StudentID, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check student ID uniqueness")
		}
		if taken {
			return nil, appErrors.ErrDuplicateStudentID
		}
		student.StudentID = *req.StudentID
	}
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Class != nil {
		student.Class = *req.Class
	}
	if req.PhoneNumber != nil {
		student.PhoneNumber = *req.PhoneNumber
	}

	if err := s.repo.UpdateProfile(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update student")
	}
	return student, nil
}

// UpdateMarks replaces the component marks and recomputes total,
// percentage and grade together. The range check rejects rather than
// clamps, so data-entry mistakes surface instead of being masked.
func (s *StudentService) UpdateMarks(ctx context.Context, id string, req UpdateMarksRequest) (*models.Student, error) {
	marks := models.Marks{Quiz: req.Quiz, Assignment: req.Assignment, Midterm: req.Midterm, Final: req.Final}
	if err := grading.ValidateMarks(marks); err != nil {
		return nil, err
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := grading.DeriveSummaryWithMax(marks, s.maxTotal)
	student.Marks = marks
	student.Total = summary.Total
	student.Percentage = summary.Percentage
	student.Grade = summary.Grade

	if err := s.repo.UpdateMarks(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update marks")
	}

	s.invalidateAnalytics(ctx)
	return student, nil
}

// Delete removes a roster record permanently.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete student")
	}
	s.invalidateAnalytics(ctx)
	return nil
}

func (s *StudentService) invalidateAnalytics(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, analyticsCachePattern)
	}
}
