// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oscesim/consult-service/internal/api/dto"
	"github.com/oscesim/consult-service/internal/api/middleware"
	"github.com/oscesim/consult-service/internal/domain/errors"
	"github.com/oscesim/consult-service/internal/services/consultation"
)

// ConsultationHandler handles the consultation simulation endpoints.
type ConsultationHandler struct {
	service consultation.Service
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(service consultation.Service) *ConsultationHandler {
	return &ConsultationHandler{
		service: service,
	}
}

// Start handles POST /consultation
// @Summary Start a consultation
// @Description Starts a new simulated consultation, discarding any previous one
// @Tags Consultation
// @Accept json
// @Produce json
// @Param request body dto.StartConsultationRequest false "Scenario options"
// @Success 201 {object} dto.SessionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation [post]
func (h *ConsultationHandler) Start(c *gin.Context) {
	userID := middleware.GetUserID(c)

	// The body is optional; an absent or empty body starts a default scenario.
	var req dto.StartConsultationRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	sess, err := h.service.Start(c.Request.Context(), userID, req.ToScenarioConfig())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionResponse(sess))
}

// Get handles GET /consultation
// @Summary Get the current consultation
// @Description Returns the in-progress consultation session
// @Tags Consultation
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation [get]
func (h *ConsultationHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	sess, err := h.service.Current(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(sess))
}

// PostMessage handles POST /consultation/messages
// @Summary Post a user message
// @Description Appends a message from the trainee to the transcript
// @Tags Consultation
// @Accept json
// @Produce json
// @Param request body dto.PostMessageRequest true "Message content"
// @Success 200 {object} dto.PostMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation/messages [post]
func (h *ConsultationHandler) PostMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.PostMessage(c.Request.Context(), userID, req.Content)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PostMessageResponse{
		Stored:    result.Stored,
		Sanitized: result.Sanitized,
	})
}

// Reply handles POST /consultation/reply
// @Summary Generate the patient's reply
// @Description Generates the patient's next message from the transcript
// @Tags Consultation
// @Produce json
// @Success 200 {object} dto.ReplyResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation/reply [post]
func (h *ConsultationHandler) Reply(c *gin.Context) {
	userID := middleware.GetUserID(c)

	reply, err := h.service.RequestReply(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReplyResponse{Content: reply})
}

// Hint handles POST /consultation/hint
// @Summary Generate a hint
// @Description Suggests the next question the trainee could ask
// @Tags Consultation
// @Produce json
// @Success 200 {object} dto.HintResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation/hint [post]
func (h *ConsultationHandler) Hint(c *gin.Context) {
	userID := middleware.GetUserID(c)

	hint, err := h.service.RequestHint(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HintResponse{Hint: hint})
}

// Exam handles POST /consultation/exam
// @Summary Generate examination findings
// @Description Produces an objective physical examination readout for the complaint
// @Tags Consultation
// @Accept json
// @Produce json
// @Param request body dto.ExamRequest true "Presenting complaint"
// @Success 200 {object} dto.ExamResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation/exam [post]
func (h *ConsultationHandler) Exam(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	findings, err := h.service.RequestExam(c.Request.Context(), userID, req.Complaint)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExamResponse{Findings: findings})
}

// Feedback handles POST /consultation/feedback
// @Summary Generate feedback
// @Description Produces the rubric-scored evaluation, once per consultation
// @Tags Consultation
// @Produce json
// @Success 200 {object} dto.FeedbackResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation/feedback [post]
func (h *ConsultationHandler) Feedback(c *gin.Context) {
	userID := middleware.GetUserID(c)

	fb, err := h.service.RequestFeedback(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FeedbackResponse{Feedback: fb})
}

// Clear handles POST /consultation/clear
// @Summary Clear the consultation
// @Description Discards hints, findings and feedback and re-seeds the scenario
// @Tags Consultation
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/consult-service/consultation/clear [post]
func (h *ConsultationHandler) Clear(c *gin.Context) {
	userID := middleware.GetUserID(c)

	sess, err := h.service.Clear(c.Request.Context(), userID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(sess))
}
