package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/pkg/export"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
)

var exportHeaders = []string{"Start", "End", "Subject", "Code", "Teacher", "Venue", "Type", "Batches"}

// ExportService turns derived day views into downloadable documents.
type ExportService struct {
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService builds the export service.
func NewExportService(csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger}
}

func dayDataset(view models.DayView) export.Dataset {
	rows := make([]map[string]string, 0, len(view.Items))
	for _, item := range view.Items {
		rows = append(rows, map[string]string{
			"Start":   item.Start,
			"End":     item.End,
			"Subject": item.Subject,
			"Code":    item.SubjectCode,
			"Teacher": item.Teacher,
			"Venue":   item.Venue,
			"Type":    item.Type,
			"Batches": item.BatchLabel,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

// CSV renders a day view as CSV.
func (s *ExportService) CSV(view models.DayView) ([]byte, error) {
	if len(view.Items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "nothing to export for this day")
	}
	data, err := s.csv.Render(dayDataset(view))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
	}
	return data, nil
}

// PDF renders a day view as a tabular PDF. The subtitle carries the active
// selection so the document is self-describing.
func (s *ExportService) PDF(view models.DayView, subtitle string) ([]byte, error) {
	if len(view.Items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "nothing to export for this day")
	}
	title := fmt.Sprintf("%s timetable", view.Day)
	data, err := s.pdf.Render(dayDataset(view), title, subtitle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
	}
	return data, nil
}
