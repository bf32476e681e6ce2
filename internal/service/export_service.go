package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gradehub/gradebook-api/internal/models"
	"github.com/gradehub/gradebook-api/internal/roster"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
	"github.com/gradehub/gradebook-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var exportHeaders = []string{
	"Name", "Student ID", "Email", "Class",
	"Quiz", "Assignment", "Midterm", "Final",
	"Total", "Percentage", "Grade",
}

type rosterLister interface {
	List(ctx context.Context, q roster.Query) ([]models.Student, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered roster download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the current roster view as a downloadable file.
type ExportService struct {
	students rosterLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(students rosterLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Generate renders the roster matching the query into the requested
// format. The same view-model parameters as the list endpoint apply, so an
// export matches what the teacher sees on screen.
func (s *ExportService) Generate(ctx context.Context, q roster.Query, format ExportFormat) (*ExportResult, error) {
	students, err := s.students.List(ctx, q)
	if err != nil {
		return nil, err
	}

	dataset := buildRosterDataset(students)
	date := s.now().UTC().Format("2006-01-02")

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("students_data_%s.csv", date),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Student Records")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("students_data_%s.pdf", date),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildRosterDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, map[string]string{
			"Name":       s.Name,
			"Student ID": s.StudentID,
			"Email":      s.Email,
			"Class":      string(s.Class),
			"Quiz":       strconv.Itoa(s.Quiz),
			"Assignment": strconv.Itoa(s.Assignment),
			"Midterm":    strconv.Itoa(s.Midterm),
			"Final":      strconv.Itoa(s.Final),
			"Total":      strconv.Itoa(s.Total),
			"Percentage": strconv.FormatFloat(s.Percentage, 'f', 2, 64),
			"Grade":      s.Grade,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
