package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradehub/gradebook-api/internal/roster"
	"github.com/gradehub/gradebook-api/internal/service"
	"github.com/gradehub/gradebook-api/pkg/response"
)

// ExportServiceAPI captures the export use-case the handler depends on.
type ExportServiceAPI interface {
	Generate(ctx context.Context, q roster.Query, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams roster downloads.
type ExportHandler struct {
	service ExportServiceAPI
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc ExportServiceAPI) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Students godoc
// @Summary Export students
// @Description Download the current roster view as CSV or PDF
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv | pdf" default(csv)
// @Param search query string false "Substring matched against name, email and student ID"
// @Param filter query string false "all | passing | failing | excellent"
// @Param sort query string false "name | percentage | total | studentId"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /export/students [get]
func (h *ExportHandler) Students(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	q := viewQueryFromRequest(c)

	result, err := h.service.Generate(c.Request.Context(), q, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
