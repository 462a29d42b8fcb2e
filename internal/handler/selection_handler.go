package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/timetable-companion/internal/service"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
	"github.com/planwise/timetable-companion/pkg/response"
)

// SelectionHandler exposes the selection cascade and its option listings.
type SelectionHandler struct {
	selection *service.SelectionService
}

// NewSelectionHandler constructs a selection handler.
func NewSelectionHandler(svc *service.SelectionService) *SelectionHandler {
	return &SelectionHandler{selection: svc}
}

// Update godoc
// @Summary Change one selection level
// @Tags Selection
// @Accept json
// @Produce json
// @Param payload body service.ChangeRequest true "Level and value"
// @Success 200 {object} response.Envelope
// @Router /selection [put]
func (h *SelectionHandler) Update(c *gin.Context) {
	var req service.ChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sel, err := h.selection.Apply(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sel)
}

// Options godoc
// @Summary List the selectable options at every level
// @Tags Selection
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /selection/options [get]
func (h *SelectionHandler) Options(c *gin.Context) {
	response.OK(c, gin.H{
		"selection": h.selection.Current(),
		"courses":   h.selection.Courses(),
		"semesters": h.selection.Semesters(),
		"phases":    h.selection.Phases(),
		"batches":   h.selection.Batches(),
	})
}

// CycleDay godoc
// @Summary Move the viewed day forward or backward
// @Tags Selection
// @Produce json
// @Param direction path string true "next or prev"
// @Success 200 {object} response.Envelope
// @Router /selection/day/{direction} [post]
func (h *SelectionHandler) CycleDay(c *gin.Context) {
	switch c.Param("direction") {
	case "next":
		response.OK(c, h.selection.NextDay())
	case "prev":
		response.OK(c, h.selection.PrevDay())
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "direction must be next or prev"))
	}
}
