package models

import "time"

// ConsultationSession tracks one in-progress simulated encounter and its
// derived artifacts. Owned by exactly one authenticated user; mutated only by
// the consultation service between an explicit load and save.
type ConsultationSession struct {
	UserID     string     `json:"userId"`
	Scenario   *Scenario  `json:"scenario,omitempty"`
	Transcript Transcript `json:"transcript"`

	// Derived artifacts. Hint and ExamFindings are overwritten by their
	// requests and invalidated whenever a new user message is posted.
	Hint         string    `json:"hint,omitempty"`
	ExamFindings string    `json:"examFindings,omitempty"`
	Feedback     *Feedback `json:"feedback,omitempty"`
	// FeedbackGiven guards against regenerating structured feedback.
	FeedbackGiven bool `json:"feedbackGiven"`

	// Token counters accumulated across the encounter's generation calls,
	// kept for cost accounting.
	TokensInput  int `json:"tokensInput,omitempty"`
	TokensOutput int `json:"tokensOutput,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewConsultationSession creates an empty session for the user.
func NewConsultationSession(userID string) *ConsultationSession {
	now := time.Now().UTC()
	return &ConsultationSession{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendUser appends a user message to the transcript.
func (s *ConsultationSession) AppendUser(content string) {
	s.Transcript = append(s.Transcript, NewUserMessage(content))
	s.UpdatedAt = time.Now().UTC()
}

// AppendAssistant appends an assistant message to the transcript.
func (s *ConsultationSession) AppendAssistant(content string) {
	s.Transcript = append(s.Transcript, NewAssistantMessage(content))
	s.UpdatedAt = time.Now().UTC()
}

// InvalidateTurnArtifacts clears the artifacts that a new user message makes
// stale. The feedback artifact survives: it is produced once at the end of an
// encounter.
func (s *ConsultationSession) InvalidateTurnArtifacts() {
	s.Hint = ""
	s.ExamFindings = ""
}

// ResetArtifacts discards every derived artifact and the write-once guard.
func (s *ConsultationSession) ResetArtifacts() {
	s.Hint = ""
	s.ExamFindings = ""
	s.Feedback = nil
	s.FeedbackGiven = false
}
