package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/store"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
	"github.com/planwise/timetable-companion/pkg/response"
)

// PreferenceHandler persists the viewer's display flags.
type PreferenceHandler struct {
	cache *store.Cache
}

// NewPreferenceHandler constructs a preference handler.
func NewPreferenceHandler(cache *store.Cache) *PreferenceHandler {
	return &PreferenceHandler{cache: cache}
}

// Get godoc
// @Summary Read the display preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	response.OK(c, h.cache.Preferences())
}

// Update godoc
// @Summary Replace the display preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body models.Preferences true "All five flags"
// @Success 200 {object} response.Envelope
// @Router /preferences [put]
func (h *PreferenceHandler) Update(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.cache.SetPreferences(prefs); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, prefs)
}

// SwipeHintSeen godoc
// @Summary Record that the swipe hint was shown
// @Tags Preferences
// @Success 204
// @Router /preferences/swipe-hint [post]
func (h *PreferenceHandler) SwipeHintSeen(c *gin.Context) {
	if err := h.cache.MarkSwipeHintSeen(); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
