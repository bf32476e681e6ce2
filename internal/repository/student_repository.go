package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gradehub/gradebook-api/internal/models"
)

// StudentRepository manages persistence for roster records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, name, email, student_id, class, phone_number,
        quiz_marks, assignment_marks, midterm_marks, final_marks,
        total, percentage, grade, created_at, updated_at`

// ListAll returns the full roster. Filtering and ordering happen in memory
// downstream, so there is deliberately no SQL-side search here.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY created_at", studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by primary key.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail fetches a student by email, the natural secondary key.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE email = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks whether a record with the email exists, optionally
// excluding an ID (for updates).
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

// ExistsByStudentID checks whether a record with the student ID exists,
// optionally excluding an ID.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string, excludeID string) (bool, error) {
	return r.exists(ctx, "student_id", studentID, excludeID)
}

func (r *StudentRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM students WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new roster record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, name, email, student_id, class, phone_number,
        quiz_marks, assignment_marks, midterm_marks, final_marks,
        total, percentage, grade, created_at, updated_at)
        VALUES (:id, :name, :email, :student_id, :class, :phone_number,
        :quiz_marks, :assignment_marks, :midterm_marks, :final_marks,
        :total, :percentage, :grade, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// UpdateProfile modifies the identity fields of a student. Marks and the
// derived fields are untouched.
func (r *StudentRepository) UpdateProfile(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, email = :email, student_id = :student_id,
        class = :class, phone_number = :phone_number, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	return nil
}

// UpdateMarks writes the four components and their derived fields in a
// single statement so the invariant total == sum(marks) holds at every
// observable point.
func (r *StudentRepository) UpdateMarks(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET quiz_marks = :quiz_marks, assignment_marks = :assignment_marks,
        midterm_marks = :midterm_marks, final_marks = :final_marks,
        total = :total, percentage = :percentage, grade = :grade, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student marks: %w", err)
	}
	return nil
}

// Delete removes a roster record. There is no soft delete.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
