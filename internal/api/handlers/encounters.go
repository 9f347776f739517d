// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oscesim/consult-service/internal/api/dto"
	"github.com/oscesim/consult-service/internal/api/middleware"
	"github.com/oscesim/consult-service/internal/core/docdb"
	"github.com/oscesim/consult-service/internal/domain/errors"
	"github.com/oscesim/consult-service/internal/report"
)

// EncountersHandler handles the archived encounter endpoints.
type EncountersHandler struct {
	encounters docdb.EncountersCollection
	renderer   *report.Renderer
}

// NewEncountersHandler creates a new EncountersHandler.
func NewEncountersHandler(encounters docdb.EncountersCollection, renderer *report.Renderer) *EncountersHandler {
	return &EncountersHandler{
		encounters: encounters,
		renderer:   renderer,
	}
}

// ListEncountersRequest represents the query parameters for listing encounters.
type ListEncountersRequest struct {
	Limit  int64 `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int64 `form:"offset" binding:"omitempty,min=0"`
}

// List handles GET /encounters
// @Summary List encounters
// @Description Lists the user's archived encounters, newest first
// @Tags Encounters
// @Produce json
// @Param limit query int false "Maximum number of encounters" default(20) minimum(1) maximum(100)
// @Param offset query int false "Offset for pagination" default(0) minimum(0)
// @Success 200 {object} dto.ListEncountersResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/encounters [get]
func (h *EncountersHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	var req ListEncountersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid query parameters", err.Error()))
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	total, err := h.encounters.Count(ctx, userID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to count encounters", err))
		return
	}

	list, err := h.encounters.List(ctx, &docdb.ListEncountersOptions{
		UserID: userID,
		Limit:  req.Limit,
		Skip:   req.Offset,
	})
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to list encounters", err))
		return
	}

	summaries := make([]*dto.EncounterSummaryResponse, 0, len(list))
	for _, e := range list {
		summaries = append(summaries, dto.NewEncounterSummaryResponse(e))
	}

	c.JSON(http.StatusOK, dto.ListEncountersResponse{
		Encounters: summaries,
		Total:      total,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}

// Get handles GET /encounters/:encounterId
// @Summary Get an encounter
// @Description Retrieves one archived encounter including transcript and feedback
// @Tags Encounters
// @Produce json
// @Param encounterId path string true "Encounter ID"
// @Success 200 {object} models.Encounter
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/encounters/{encounterId} [get]
func (h *EncountersHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	encounterID := c.Param("encounterId")

	encounter, err := h.encounters.Get(ctx, userID, encounterID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to get encounter", err))
		return
	}
	if encounter == nil {
		middleware.HandleError(c, errors.NewNotFoundError("encounter", encounterID))
		return
	}

	c.JSON(http.StatusOK, encounter)
}

// Report handles GET /encounters/:encounterId/report.pdf
// @Summary Download an encounter report
// @Description Renders the encounter's feedback report as a PDF
// @Tags Encounters
// @Produce application/pdf
// @Param encounterId path string true "Encounter ID"
// @Success 200 {file} binary
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/encounters/{encounterId}/report.pdf [get]
func (h *EncountersHandler) Report(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	encounterID := c.Param("encounterId")

	encounter, err := h.encounters.Get(ctx, userID, encounterID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to get encounter", err))
		return
	}
	if encounter == nil {
		middleware.HandleError(c, errors.NewNotFoundError("encounter", encounterID))
		return
	}

	pdf, err := h.renderer.Render(encounter)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to render report", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=encounter_%s.pdf", encounter.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
