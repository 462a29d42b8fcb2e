package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/pkg/export"
)

func exportFixtureView() models.DayView {
	return models.DayView{
		Day: "Monday",
		Items: []models.DayItem{
			{
				ClassItem: models.ClassItem{
					Start: "9:00 AM", End: "10:00 AM",
					Subject: "Maths", SubjectCode: "MA101",
					Teacher: "Dr. Rao", Venue: "LH-1", Type: "Lecture",
				},
				BatchLabel: "A1-A3",
			},
		},
	}
}

func newExportService() *ExportService {
	return NewExportService(export.NewCSVExporter(), export.NewPDFExporter(), nil)
}

func TestCSVExportContainsRows(t *testing.T) {
	data, err := newExportService().CSV(exportFixtureView())

	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "Start,End,Subject"))
	assert.Contains(t, out, "9:00 AM,10:00 AM,Maths,MA101,Dr. Rao,LH-1,Lecture,A1-A3")
}

func TestCSVExportEmptyDayFails(t *testing.T) {
	_, err := newExportService().CSV(models.DayView{Day: "Sunday"})

	require.Error(t, err)
}

func TestPDFExportProducesDocument(t *testing.T) {
	data, err := newExportService().PDF(exportFixtureView(), "B.Tech / Semester 3")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
