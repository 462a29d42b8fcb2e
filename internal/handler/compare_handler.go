package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/service"
	"github.com/planwise/timetable-companion/internal/store"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
	"github.com/planwise/timetable-companion/pkg/response"
)

// CompareHandler finds break slots shared across batches of the active
// course, semester and phase.
type CompareHandler struct {
	selection *service.SelectionService
	electives *service.ElectiveService
	week      *service.WeekService
	cache     *store.Cache
}

// NewCompareHandler constructs a compare handler.
func NewCompareHandler(selection *service.SelectionService, electives *service.ElectiveService, week *service.WeekService, cache *store.Cache) *CompareHandler {
	return &CompareHandler{selection: selection, electives: electives, week: week, cache: cache}
}

// Breaks godoc
// @Summary Common breaks across batches
// @Tags Compare
// @Produce json
// @Param batches query string true "Comma-separated batch names"
// @Param day query string false "Day name, defaults to the viewed day"
// @Success 200 {object} response.Envelope
// @Router /compare/breaks [get]
func (h *CompareHandler) Breaks(c *gin.Context) {
	batches := splitParam(c.Query("batches"))
	if len(batches) < 2 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "need at least two batches to compare"))
		return
	}

	sel := h.selection.Current()
	day := c.Query("day")
	if day == "" {
		day = sel.Day
	}
	if !models.IsDay(day) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown day name"))
		return
	}

	electiveSel := h.electives.Selection(sel.Combo())

	perBatch := make([][]models.Break, 0, len(batches))
	for _, batch := range batches {
		tuple := sel.Tuple
		tuple.Batch = batch
		payload, ok := h.cache.Classes(tuple)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrCacheMiss, "no cached classes for batch "+batch))
			return
		}
		view := h.week.DeriveDay(payload.Classes, day, electiveSel)
		perBatch = append(perBatch, view.Breaks)
	}

	response.OK(c, gin.H{
		"day":     day,
		"batches": batches,
		"breaks":  h.week.CommonBreaks(perBatch),
	})
}

func splitParam(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
