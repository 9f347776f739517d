package consultation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultClarificationPrompt replaces degenerate user input. The simulation
// continues with this in place of the original text rather than halting.
const DefaultClarificationPrompt = "Sorry, I didn't quite catch that. Could you tell me a bit more about what you'd like to ask?"

// DefaultMinMessageLength is the minimum accepted input length in runes.
const DefaultMinMessageLength = 3

// fillerPhrases are generic pleas that carry no clinical content.
var fillerPhrases = map[string]struct{}{
	"help":        {},
	"?":           {},
	"??":          {},
	"???":         {},
	"assist":      {},
	"i need help": {},
}

// roleAssertions are phrases asserting a false role, a trainee trying to
// break the simulation frame.
var roleAssertions = []string{
	"i am the patient",
	"i'm the patient",
	"you are the clinician",
	"you are the doctor",
	"i am the clinician",
	"i'm the clinician",
	"i am the doctor",
	"i'm the doctor",
}

// Sanitizer applies the input heuristics guarding the simulation frame. This
// is not a security boundary.
type Sanitizer struct {
	minLength     int
	clarification string
}

// NewSanitizer creates a sanitizer. Zero values fall back to the defaults.
func NewSanitizer(minLength int, clarification string) *Sanitizer {
	if minLength <= 0 {
		minLength = DefaultMinMessageLength
	}
	if clarification == "" {
		clarification = DefaultClarificationPrompt
	}
	return &Sanitizer{minLength: minLength, clarification: clarification}
}

// Sanitize returns the text to store and whether the input was replaced with
// the clarification prompt.
func (s *Sanitizer) Sanitize(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)

	if utf8.RuneCountInString(trimmed) < s.minLength {
		return s.clarification, true
	}
	if _, ok := fillerPhrases[lowered]; ok {
		return s.clarification, true
	}
	if !containsVowel(lowered) {
		return s.clarification, true
	}
	for _, phrase := range roleAssertions {
		if strings.Contains(lowered, phrase) {
			return s.clarification, true
		}
	}
	return trimmed, false
}

// containsVowel reports whether any letter of the input is a vowel. Inputs
// with letters but no vowels are keyboard mash, not questions.
func containsVowel(s string) bool {
	for _, r := range s {
		switch unicode.ToLower(r) {
		case 'a', 'e', 'i', 'o', 'u':
			return true
		}
	}
	return false
}
