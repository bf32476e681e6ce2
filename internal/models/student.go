package models

import "time"

// Class is one of the fixed grade levels a student can belong to.
type Class string

const (
	Class9  Class = "Class 9"
	Class10 Class = "Class 10"
	Class11 Class = "Class 11"
	Class12 Class = "Class 12"
)

// Classes lists the valid grade levels in display order.
var Classes = []Class{Class9, Class10, Class11, Class12}

// ValidClass reports whether the given value is a known grade level.
func ValidClass(c Class) bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// Marks holds the four raw assessment components for a student.
type Marks struct {
	Quiz       int `db:"quiz_marks" json:"quiz"`
	Assignment int `db:"assignment_marks" json:"assignment"`
	Midterm    int `db:"midterm_marks" json:"midterm"`
	Final      int `db:"final_marks" json:"final"`
}

// Student represents a roster record. Total, Percentage and Grade are
// derived from Marks and are never written except through the grading
// engine.
type Student struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Email       string  `db:"email" json:"email"`
	StudentID   string  `db:"student_id" json:"studentId"`
	Class       Class   `db:"class" json:"class"`
	PhoneNumber string  `db:"phone_number" json:"phoneNumber,omitempty"`
	Marks       `json:"marks"`
	Total       int       `db:"total" json:"total"`
	Percentage  float64   `db:"percentage" json:"percentage"`
	Grade       string    `db:"grade" json:"grade"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
