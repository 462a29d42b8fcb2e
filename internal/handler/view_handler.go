package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/planwise/timetable-companion/internal/service"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
	"github.com/planwise/timetable-companion/pkg/response"
)

// ViewHandler serves the derived day view and the companion status.
type ViewHandler struct {
	views *service.ViewService
}

// NewViewHandler constructs a view handler.
func NewViewHandler(views *service.ViewService) *ViewHandler {
	return &ViewHandler{views: views}
}

// Day godoc
// @Summary Derived day view
// @Tags View
// @Produce json
// @Param day query string false "Day name, defaults to the viewed day"
// @Success 200 {object} response.Envelope
// @Router /view/day [get]
func (h *ViewHandler) Day(c *gin.Context) {
	view, err := h.views.Day(c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Sync godoc
// @Summary Run one revalidation pass now
// @Tags View
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /sync [post]
func (h *ViewHandler) Sync(c *gin.Context) {
	if h.views.Offline() {
		response.Error(c, appErrors.ErrOffline)
		return
	}
	h.views.Refresh(c.Request.Context())
	response.OK(c, h.views.Status())
}

// Status godoc
// @Summary Companion status
// @Tags View
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /view/status [get]
func (h *ViewHandler) Status(c *gin.Context) {
	response.OK(c, h.views.Status())
}
