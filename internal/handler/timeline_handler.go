package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/timetable-companion/internal/service"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
	"github.com/planwise/timetable-companion/pkg/response"
)

// TimelineHandler wires the viewer's layout reports into the pointer engine.
type TimelineHandler struct {
	timeline *service.TimelineService
}

// NewTimelineHandler constructs a timeline handler.
func NewTimelineHandler(timeline *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timeline: timeline}
}

// GeometryRequest reports the rendered extent of each day item, positionally.
type GeometryRequest struct {
	Extents []service.Extent `json:"extents" binding:"required"`
}

// ScrollRequest reports the viewer's scroll position.
type ScrollRequest struct {
	Top float64 `json:"top"`
	Max float64 `json:"max"`
}

// Geometry godoc
// @Summary Report per-item layout extents
// @Tags Timeline
// @Accept json
// @Success 204
// @Router /timeline/geometry [put]
func (h *TimelineHandler) Geometry(c *gin.Context) {
	var req GeometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.timeline.SetExtents(req.Extents)
	response.NoContent(c)
}

// Scroll godoc
// @Summary Report the scroll position
// @Tags Timeline
// @Accept json
// @Success 204
// @Router /timeline/scroll [put]
func (h *TimelineHandler) Scroll(c *gin.Context) {
	var req ScrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.timeline.SetScroll(req.Top, req.Max)
	response.NoContent(c)
}

// State godoc
// @Summary Current pointer position and active item
// @Tags Timeline
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeline [get]
func (h *TimelineHandler) State(c *gin.Context) {
	response.OK(c, gin.H{
		"pointer":     h.timeline.Pointer(),
		"activeIndex": h.timeline.ActiveIndex(),
		"axis":        h.timeline.Axis(),
	})
}
