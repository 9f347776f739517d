package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oscesim/consult-service/internal/domain/models"
)

func sampleTranscript() models.Transcript {
	return models.Transcript{
		models.NewSystemMessage("scenario instructions"),
		models.NewAssistantMessage("Can I speak with someone about my symptoms?"),
		models.NewUserMessage("Of course, what's been bothering you?"),
		models.NewAssistantMessage("I've had a cough for three weeks."),
		models.NewUserMessage("Is the cough dry or productive?"),
	}
}

func TestTranscript_UserMessageCount(t *testing.T) {
	assert.Equal(t, 2, sampleTranscript().UserMessageCount())
	assert.Equal(t, 0, models.Transcript{}.UserMessageCount())
}

func TestTranscript_VisibleExcludesSystem(t *testing.T) {
	visible := sampleTranscript().Visible()

	assert.Len(t, visible, 4)
	for _, m := range visible {
		assert.NotEqual(t, models.RoleSystem, m.Role)
	}
}

func TestTranscript_LastUserContents(t *testing.T) {
	tr := sampleTranscript()

	assert.Equal(t, []string{"Is the cough dry or productive?"}, tr.LastUserContents(1))
	assert.Equal(t, []string{
		"Of course, what's been bothering you?",
		"Is the cough dry or productive?",
	}, tr.LastUserContents(5))
}

func TestTranscript_ContainsMarker(t *testing.T) {
	tr := sampleTranscript()

	assert.True(t, tr.ContainsMarker("cough for three weeks"))
	assert.False(t, tr.ContainsMarker("entirely absent text"))
}

func TestTranscript_DialogueRendering(t *testing.T) {
	dialogue := sampleTranscript().Dialogue()

	assert.NotContains(t, dialogue, "scenario instructions")
	assert.Contains(t, dialogue, "Patient: Can I speak with someone about my symptoms?")
	assert.Contains(t, dialogue, "User: Of course, what's been bothering you?")
}

func TestTranscript_UserDialogueOnlyUserLines(t *testing.T) {
	dialogue := sampleTranscript().UserDialogue()

	assert.NotContains(t, dialogue, "Patient:")
	assert.Contains(t, dialogue, "User: Is the cough dry or productive?")
}

func TestConsultationSession_ArtifactLifecycle(t *testing.T) {
	sess := models.NewConsultationSession("user-1")
	sess.Hint = "a hint"
	sess.ExamFindings = "findings"
	sess.Feedback = &models.Feedback{Raw: "raw"}
	sess.FeedbackGiven = true

	sess.InvalidateTurnArtifacts()

	// Turn invalidation clears only the per-turn artifacts.
	assert.Empty(t, sess.Hint)
	assert.Empty(t, sess.ExamFindings)
	assert.NotNil(t, sess.Feedback)
	assert.True(t, sess.FeedbackGiven)

	sess.Hint = "another hint"
	sess.ResetArtifacts()

	assert.Empty(t, sess.Hint)
	assert.Nil(t, sess.Feedback)
	assert.False(t, sess.FeedbackGiven)
}
