package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gradehub/gradebook-api/internal/models"
)

var (
	studentIDPattern = regexp.MustCompile(`^STU\d{3,}$`)
	phonePattern     = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// NewValidator returns a validator with the roster-specific rules
// registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterRosterValidations(v)
	return v
}

// RegisterRosterValidations installs the custom field rules used by the
// student payloads.
func RegisterRosterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("student_id", func(fl validator.FieldLevel) bool {
		return studentIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("class", func(fl validator.FieldLevel) bool {
		return models.ValidClass(models.Class(fl.Field().String()))
	})
}

// validationMessage renders all field failures into one message so format
// errors are reported in a single round trip.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "student_id":
		return field + " must be in format STU001, STU002, etc."
	case "phone":
		return field + " must be a valid phone number"
	case "class":
		return field + " must be a known grade level"
	default:
		return field + " is invalid"
	}
}
