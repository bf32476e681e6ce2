package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gradehub/gradebook-api/internal/models"
	"github.com/gradehub/gradebook-api/internal/roster"
	"github.com/gradehub/gradebook-api/internal/service"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
	"github.com/gradehub/gradebook-api/pkg/response"
)

// StudentServiceAPI captures the roster use-cases the handler depends on.
type StudentServiceAPI interface {
	List(ctx context.Context, q roster.Query) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error)
	UpdateProfile(ctx context.Context, id string, req service.UpdateProfileRequest) (*models.Student, error)
	UpdateMarks(ctx context.Context, id string, req service.UpdateMarksRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service StudentServiceAPI
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc StudentServiceAPI) *StudentHandler {
	return &StudentHandler{service: svc}
}

func viewQueryFromRequest(c *gin.Context) roster.Query {
	q := roster.Query{
		Search: c.Query("search"),
		Filter: roster.FilterMode(c.Query("filter")),
		Sort:   roster.SortKey(c.Query("sort")),
	}
	return q.Normalize()
}

// List godoc
// @Summary List students
// @Description Return the roster view with optional search, filter and sort
// @Tags Students
// @Produce json
// @Param search query string false "Substring matched against name, email and student ID"
// @Param filter query string false "all | passing | failing | excellent"
// @Param sort query string false "name | percentage | total | studentId"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	q := viewQueryFromRequest(c)
	students, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"count": len(students)})
}

// Get godoc
// @Summary Get student
// @Description Return a single roster record by ID; students may only read their own
// @Tags Students
// @Produce json
// @Param id path string true "Student record ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// Student accounts and roster records are linked by email only, so
	// ownership is decided here rather than in the role middleware.
	claims := claimsFromContext(c)
	if claims != nil && claims.Role == models.RoleStudent && !strings.EqualFold(claims.Email, student.Email) {
		response.Error(c, appErrors.ErrPermissionDenied)
		return
	}

	response.JSON(c, http.StatusOK, student)
}

// Me godoc
// @Summary Own results
// @Description Return the roster record linked to the authenticated student account
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/me [get]
func (h *StudentHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	student, err := h.service.GetByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Description Register a new roster record with zero marks
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// UpdateProfile godoc
// @Summary Update student profile
// @Description Apply a partial identity update; marks are untouched
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student record ID"
// @Param payload body service.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	student, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// UpdateMarks godoc
// @Summary Update student marks
// @Description Replace the component marks and recompute total, percentage and grade
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student record ID"
// @Param payload body service.UpdateMarksRequest true "Component marks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id}/marks [put]
func (h *StudentHandler) UpdateMarks(c *gin.Context) {
	var req service.UpdateMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marks payload"))
		return
	}

	student, err := h.service.UpdateMarks(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Description Remove a roster record permanently
// @Tags Students
// @Param id path string true "Student record ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
