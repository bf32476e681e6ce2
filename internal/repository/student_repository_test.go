package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradehub/gradebook-api/internal/models"
)

func newStudentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "student_id", "class", "phone_number",
		"quiz_marks", "assignment_marks", "midterm_marks", "final_marks",
		"total", "percentage", "grade", "created_at", "updated_at",
	})
}

func TestStudentRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	rows := studentRows().
		AddRow("id-1", "Alice Johnson", "alice@example.com", "STU001", "Class 10", "",
			35, 38, 32, 36, 141, 88.13, "A", time.Now(), time.Now()).
		AddRow("id-2", "Bob Smith", "bob@example.com", "STU002", "Class 10", "",
			0, 0, 0, 0, 0, 0, "F", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM students ORDER BY created_at").WillReturnRows(rows)

	students, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Alice Johnson", students[0].Name)
	assert.Equal(t, 141, students[0].Total)
	assert.Equal(t, 88.13, students[0].Percentage)
	assert.Equal(t, "F", students[1].Grade)
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	rows := studentRows().
		AddRow("id-1", "Alice Johnson", "alice@example.com", "STU001", "Class 10", "+1 555 0100",
			35, 38, 32, 36, 141, 88.13, "A", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM students WHERE id =").
		WithArgs("id-1").
		WillReturnRows(rows)

	student, err := repo.FindByID(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "STU001", student.StudentID)
	assert.Equal(t, 35, student.Quiz)
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM students WHERE id =").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectQuery("SELECT 1 FROM students WHERE email =").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "alice@example.com", "")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStudentRepositoryExistsByStudentIDExcludesSelf(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectQuery("SELECT 1 FROM students WHERE student_id = (.+) AND id <>").
		WithArgs("STU001", "id-1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByStudentID(context.Background(), "STU001", "id-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{
		Name:      "Alice Johnson",
		Email:     "alice@example.com",
		StudentID: "STU001",
		Class:     models.Class10,
		Grade:     "F",
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
}

func TestStudentRepositoryUpdateMarks(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectExec("UPDATE students SET quiz_marks =").
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{
		ID:         "id-1",
		Marks:      models.Marks{Quiz: 35, Assignment: 38, Midterm: 32, Final: 36},
		Total:      141,
		Percentage: 88.13,
		Grade:      "A",
	}
	require.NoError(t, repo.UpdateMarks(context.Background(), student))
}

func TestStudentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectExec("DELETE FROM students WHERE id =").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
