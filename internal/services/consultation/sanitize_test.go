package consultation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oscesim/consult-service/internal/services/consultation"
)

func TestSanitize_ReplacesDegenerateInput(t *testing.T) {
	s := consultation.NewSanitizer(0, "")

	cases := []struct {
		name  string
		input string
	}{
		{"too short", "Hi"},
		{"single question mark", "?"},
		{"filler help", "help"},
		{"filler assist", "ASSIST"},
		{"filler plea", "I need help"},
		{"no vowels", "bcdfg hjkl"},
		{"role assertion patient", "Actually, I am the patient here"},
		{"role assertion clinician", "you are the doctor, not me"},
		{"whitespace only", "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stored, sanitized := s.Sanitize(tc.input)

			assert.True(t, sanitized)
			assert.Equal(t, consultation.DefaultClarificationPrompt, stored)
		})
	}
}

func TestSanitize_PassesClinicalQuestions(t *testing.T) {
	s := consultation.NewSanitizer(0, "")

	cases := []string{
		"My chest hurts, can you tell me more about the pain?",
		"When did the cough start?",
		"Are you taking any regular medications?",
	}

	for _, input := range cases {
		stored, sanitized := s.Sanitize(input)

		assert.False(t, sanitized)
		assert.Equal(t, input, stored)
	}
}

func TestSanitize_TrimsAcceptedInput(t *testing.T) {
	s := consultation.NewSanitizer(0, "")

	stored, sanitized := s.Sanitize("  How long have you felt unwell?  ")

	assert.False(t, sanitized)
	assert.Equal(t, "How long have you felt unwell?", stored)
}

func TestSanitize_CustomClarification(t *testing.T) {
	s := consultation.NewSanitizer(5, "Pardon?")

	stored, sanitized := s.Sanitize("Why?")

	assert.True(t, sanitized)
	assert.Equal(t, "Pardon?", stored)
}
