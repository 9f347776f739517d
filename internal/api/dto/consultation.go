// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/oscesim/consult-service/internal/domain/models"
)

// StartConsultationRequest represents the request body for starting a
// consultation. All fields are optional; unrecognised values fall back to
// defaults rather than failing.
type StartConsultationRequest struct {
	ProblemComplexity string `json:"problemComplexity"`
	PatientComplexity string `json:"patientComplexity"`
	Comorbidity       string `json:"comorbidity"`
	BodySystem        string `json:"bodySystem"`
	Nomenclature      string `json:"nomenclature"`
}

// ToScenarioConfig maps the request onto the generator's option bundle.
func (r *StartConsultationRequest) ToScenarioConfig() models.ScenarioConfig {
	return models.ScenarioConfig{
		ProblemComplexity: r.ProblemComplexity,
		PatientComplexity: models.PatientComplexity(r.PatientComplexity),
		ComorbidityMode:   models.ComorbidityMode(r.Comorbidity),
		BodySystem:        r.BodySystem,
		Nomenclature:      r.Nomenclature,
	}
}

// PostMessageRequest represents the request body for posting a user message.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,max=8000"`
}

// ExamRequest represents the request body for a physical examination.
type ExamRequest struct {
	Complaint string `json:"complaint" binding:"required,max=500"`
}

// MessageResponse represents one visible transcript message.
type MessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionResponse represents a consultation session in API responses. The
// scenario system message and any reinforcement messages are never exposed.
type SessionResponse struct {
	Persona       *models.Persona  `json:"persona,omitempty"`
	BodySystem    string           `json:"bodySystem,omitempty"`
	Messages      []MessageResponse `json:"messages"`
	Hint          string           `json:"hint,omitempty"`
	ExamFindings  string           `json:"examFindings,omitempty"`
	Feedback      *models.Feedback `json:"feedback,omitempty"`
	FeedbackGiven bool             `json:"feedbackGiven"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// NewSessionResponse maps a session onto its API shape.
func NewSessionResponse(s *models.ConsultationSession) *SessionResponse {
	resp := &SessionResponse{
		Messages:      make([]MessageResponse, 0),
		Hint:          s.Hint,
		ExamFindings:  s.ExamFindings,
		Feedback:      s.Feedback,
		FeedbackGiven: s.FeedbackGiven,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.Scenario != nil {
		persona := s.Scenario.Persona
		resp.Persona = &persona
		resp.BodySystem = s.Scenario.BodySystem
	}
	for _, msg := range s.Transcript.Visible() {
		resp.Messages = append(resp.Messages, MessageResponse{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return resp
}

// PostMessageResponse represents the response for posting a message.
type PostMessageResponse struct {
	Stored    string `json:"stored"`
	Sanitized bool   `json:"sanitized"`
}

// ReplyResponse represents a generated patient reply.
type ReplyResponse struct {
	Content string `json:"content"`
}

// HintResponse represents a generated hint.
type HintResponse struct {
	Hint string `json:"hint"`
}

// ExamResponse represents generated examination findings.
type ExamResponse struct {
	Findings string `json:"findings"`
}

// FeedbackResponse represents generated feedback.
type FeedbackResponse struct {
	Feedback *models.Feedback `json:"feedback"`
}

// EncounterSummaryResponse represents one archived encounter in list views.
type EncounterSummaryResponse struct {
	ID        string    `json:"id"`
	Persona   string    `json:"persona"`
	Complaint string    `json:"complaint"`
	Overall   *int      `json:"overall,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEncounterSummaryResponse maps an encounter onto its list shape.
func NewEncounterSummaryResponse(e *models.Encounter) *EncounterSummaryResponse {
	resp := &EncounterSummaryResponse{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
	}
	if e.Scenario != nil {
		resp.Persona = e.Scenario.Persona.Name
		resp.Complaint = e.Scenario.Complaint
	}
	if e.Feedback != nil && e.Feedback.Result != nil {
		overall := e.Feedback.Result.Overall
		resp.Overall = &overall
	}
	return resp
}

// ListEncountersResponse represents the response for listing encounters.
type ListEncountersResponse struct {
	Encounters []*EncounterSummaryResponse `json:"encounters"`
	Total      int64                       `json:"total"`
	Limit      int64                       `json:"limit"`
	Offset     int64                       `json:"offset"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}
