// Package models contains domain models for the Consultation Simulation Service.
package models

import "strings"

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleSystem carries scenario instructions. System messages are never
	// shown to the end user.
	RoleSystem Role = "system"
	// RoleUser is the trainee taking the history.
	RoleUser Role = "user"
	// RoleAssistant is the simulated patient.
	RoleAssistant Role = "assistant"
)

// Message is one immutable role-tagged entry in a transcript. Ordering is
// significant: messages are never reordered once appended.
type Message struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Transcript is the ordered conversation sent wholesale to the text-generation
// client on every call. The first message of a seeded transcript is always the
// scenario system message.
type Transcript []Message

// UserMessageCount returns the number of user-role messages.
func (t Transcript) UserMessageCount() int {
	n := 0
	for _, m := range t {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Visible returns the transcript with system messages filtered out, in order.
// This is what the end user is allowed to see.
func (t Transcript) Visible() Transcript {
	out := make(Transcript, 0, len(t))
	for _, m := range t {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// LastUserContents returns the contents of the most recent n user messages,
// oldest first.
func (t Transcript) LastUserContents(n int) []string {
	var all []string
	for _, m := range t {
		if m.Role == RoleUser {
			all = append(all, m.Content)
		}
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// ContainsMarker reports whether any message content contains the given
// substring. Used to keep the reinforcement message present at most once.
func (t Transcript) ContainsMarker(marker string) bool {
	for _, m := range t {
		if strings.Contains(m.Content, marker) {
			return true
		}
	}
	return false
}

// Dialogue renders the non-system conversation as "User:"/"Patient:" lines,
// one message per line, in transcript order.
func (t Transcript) Dialogue() string {
	var b strings.Builder
	for _, m := range t {
		if m.Role == RoleSystem {
			continue
		}
		speaker := "Patient"
		if m.Role == RoleUser {
			speaker = "User"
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// UserDialogue renders only the user-role messages as "User:" lines.
func (t Transcript) UserDialogue() string {
	var b strings.Builder
	for _, m := range t {
		if m.Role != RoleUser {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("User: ")
		b.WriteString(m.Content)
	}
	return b.String()
}
