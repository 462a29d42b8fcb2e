package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/timetable-companion/internal/service"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
	"github.com/planwise/timetable-companion/pkg/response"
)

// ElectiveHandler exposes the elective catalog and the overlay choices.
type ElectiveHandler struct {
	selection *service.SelectionService
	electives *service.ElectiveService
}

// NewElectiveHandler constructs an elective handler.
func NewElectiveHandler(selection *service.SelectionService, electives *service.ElectiveService) *ElectiveHandler {
	return &ElectiveHandler{selection: selection, electives: electives}
}

// ChooseElectiveRequest picks one elective for a category.
type ChooseElectiveRequest struct {
	Category string `json:"category" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// Catalog godoc
// @Summary Elective catalog and current choices
// @Tags Electives
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /electives [get]
func (h *ElectiveHandler) Catalog(c *gin.Context) {
	combo := h.selection.Current().Combo()
	catalog, ok := h.electives.Catalog(combo)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no elective catalog loaded for this combination"))
		return
	}
	response.OK(c, gin.H{
		"categories": catalog.Categories,
		"selection":  h.electives.Selection(combo),
	})
}

// Choose godoc
// @Summary Choose the visible elective for one category
// @Tags Electives
// @Accept json
// @Produce json
// @Param payload body ChooseElectiveRequest true "Category and code"
// @Success 200 {object} response.Envelope
// @Router /electives/selection [put]
func (h *ElectiveHandler) Choose(c *gin.Context) {
	var req ChooseElectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sel, err := h.electives.Choose(h.selection.Current().Combo(), req.Category, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sel)
}

// HideAll godoc
// @Summary Hide every elective
// @Tags Electives
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /electives/hide-all [post]
func (h *ElectiveHandler) HideAll(c *gin.Context) {
	sel, err := h.electives.HideAll(h.selection.Current().Combo())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sel)
}
