package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/timetable-companion/internal/service"
	"github.com/planwise/timetable-companion/pkg/response"
)

// ExportHandler serves the day view as downloadable documents.
type ExportHandler struct {
	views     *service.ViewService
	selection *service.SelectionService
	exports   *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(views *service.ViewService, selection *service.SelectionService, exports *service.ExportService) *ExportHandler {
	return &ExportHandler{views: views, selection: selection, exports: exports}
}

// CSV godoc
// @Summary Download a day as CSV
// @Tags Export
// @Produce text/csv
// @Param day query string false "Day name, defaults to the viewed day"
// @Success 200
// @Router /export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	view, err := h.views.Day(c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.exports.CSV(view)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-timetable.csv", view.Day))
	c.Data(http.StatusOK, "text/csv", data)
}

// PDF godoc
// @Summary Download a day as PDF
// @Tags Export
// @Produce application/pdf
// @Param day query string false "Day name, defaults to the viewed day"
// @Success 200
// @Router /export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	view, err := h.views.Day(c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sel := h.selection.Current()
	subtitle := fmt.Sprintf("%s / Semester %s / Phase %s", sel.Course, sel.Semester, sel.Phase)
	if sel.Batch != "" {
		subtitle += " / Batch " + sel.Batch
	}
	data, err := h.exports.PDF(view, subtitle)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-timetable.pdf", view.Day))
	c.Data(http.StatusOK, "application/pdf", data)
}
