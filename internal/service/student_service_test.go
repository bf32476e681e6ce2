package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradehub/gradebook-api/internal/models"
	"github.com/gradehub/gradebook-api/internal/roster"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
)

type mockStudentRepo struct {
	students     map[string]models.Student
	order        []string
	listErr      error
	creates      int
	failMarksFor string
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]models.Student)}
}

func (m *mockStudentRepo) add(s models.Student) {
	m.students[s.ID] = s
	m.order = append(m.order, s.ID)
}

func (m *mockStudentRepo) ListAll(ctx context.Context) ([]models.Student, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Student, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.students[id])
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByStudentID(ctx context.Context, studentID string, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.StudentID == studentID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.creates++
	if student.ID == "" {
		student.ID = fmt.Sprintf("gen-%d", m.creates)
	}
	m.add(*student)
	return nil
}

func (m *mockStudentRepo) UpdateProfile(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) UpdateMarks(ctx context.Context, student *models.Student) error {
	if m.failMarksFor != "" && m.failMarksFor == student.StudentID {
		return sql.ErrConnDone
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func newTestStudentService(repo *mockStudentRepo) *StudentService {
	return NewStudentService(repo, nil, NewValidator(), zap.NewNop(), 0)
}

func TestStudentServiceCreate(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:      "Alice Johnson",
		Email:     "alice@example.com",
		StudentID: "STU001",
		Class:     models.Class10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, 0, student.Total)
	assert.Equal(t, 0.00, student.Percentage)
	assert.Equal(t, "F", student.Grade)
}

func TestStudentServiceCreateAccumulatesFormatErrors(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestStudentService(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:      "",
		Email:     "not-an-email",
		StudentID: "123",
		Class:     "Class 13",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Name is required")
	assert.Contains(t, appErr.Message, "Email must be a valid email address")
	assert.Contains(t, appErr.Message, "StudentID must be in format STU001")
	assert.Equal(t, 0, repo.creates, "no write on validation failure")
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", Email: "alice@example.com", StudentID: "STU001"})
	svc := newTestStudentService(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:      "Other Alice",
		Email:     "alice@example.com",
		StudentID: "STU999",
		Class:     models.Class9,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.creates, "no write after duplicate")
}

func TestStudentServiceCreateDuplicateStudentID(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", Email: "alice@example.com", StudentID: "STU001"})
	svc := newTestStudentService(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:      "Bob Smith",
		Email:     "bob@example.com",
		StudentID: "STU001",
		Class:     models.Class9,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateStudentID.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateMarksDerivesSummary(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", Name: "Alice", Email: "alice@example.com", StudentID: "STU001", Grade: "F"})
	svc := newTestStudentService(repo)

	student, err := svc.UpdateMarks(context.Background(), "id-1", UpdateMarksRequest{Quiz: 35, Assignment: 38, Midterm: 32, Final: 36})
	require.NoError(t, err)
	assert.Equal(t, 141, student.Total)
	assert.Equal(t, 88.13, student.Percentage)
	assert.Equal(t, "A", student.Grade)

	stored := repo.students["id-1"]
	assert.Equal(t, 141, stored.Total)
	assert.Equal(t, "A", stored.Grade)
}

func TestStudentServiceUpdateMarksRejectsOutOfRange(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", StudentID: "STU001"})
	svc := newTestStudentService(repo)

	_, err := svc.UpdateMarks(context.Background(), "id-1", UpdateMarksRequest{Quiz: 41})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	stored := repo.students["id-1"]
	assert.Equal(t, 0, stored.Quiz, "no partial write on range failure")
}

func TestStudentServiceUpdateProfilePartial(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{
		ID: "id-1", Name: "Alice", Email: "alice@example.com", StudentID: "STU001",
		Class: models.Class10, Total: 141, Percentage: 88.13, Grade: "A",
	})
	svc := newTestStudentService(repo)

	name := "Alice J."
	student, err := svc.UpdateProfile(context.Background(), "id-1", UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice J.", student.Name)
	assert.Equal(t, "alice@example.com", student.Email)
	assert.Equal(t, "A", student.Grade, "derived fields untouched by profile update")
}

func TestStudentServiceUpdateProfileDuplicateEmail(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", Email: "alice@example.com", StudentID: "STU001"})
	repo.add(models.Student{ID: "id-2", Email: "bob@example.com", StudentID: "STU002"})
	svc := newTestStudentService(repo)

	email := "alice@example.com"
	_, err := svc.UpdateProfile(context.Background(), "id-2", UpdateProfileRequest{Email: &email})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateProfileKeepOwnEmail(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", Name: "Alice", Email: "alice@example.com", StudentID: "STU001"})
	svc := newTestStudentService(repo)

	email := "alice@example.com"
	_, err := svc.UpdateProfile(context.Background(), "id-1", UpdateProfileRequest{Email: &email})
	require.NoError(t, err)
}

func TestStudentServiceListAppliesView(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "1", Name: "Bob", Percentage: 45})
	repo.add(models.Student{ID: "2", Name: "alice", Percentage: 55})
	repo.add(models.Student{ID: "3", Name: "Carol", Percentage: 85})
	svc := newTestStudentService(repo)

	view, err := svc.List(context.Background(), roster.Query{Filter: roster.FilterPassing, Sort: roster.SortByName})
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, "alice", view[0].Name)
	assert.Equal(t, "Carol", view[1].Name)
}

func TestStudentServiceListStoreUnavailable(t *testing.T) {
	repo := newMockStudentRepo()
	repo.listErr = sql.ErrConnDone
	svc := newTestStudentService(repo)

	_, err := svc.List(context.Background(), roster.Query{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", StudentID: "STU001"})
	svc := newTestStudentService(repo)

	require.NoError(t, svc.Delete(context.Background(), "id-1"))

	err := svc.Delete(context.Background(), "id-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceGetByEmail(t *testing.T) {
	repo := newMockStudentRepo()
	repo.add(models.Student{ID: "id-1", Email: "alice@example.com", StudentID: "STU001"})
	svc := newTestStudentService(repo)

	student, err := svc.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", student.ID)

	_, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
