// Package llm defines the text-generation client interface.
//
// The client is stateless between calls: the full transcript is resent on
// every request and exactly one assistant message comes back.
package llm

import (
	"context"

	"github.com/oscesim/consult-service/internal/domain/models"
)

// Type represents the type of text-generation backend.
type Type string

const (
	// TypeOpenAI represents the OpenAI chat completion API.
	TypeOpenAI Type = "openai"
)

// Completion is one generated assistant message plus token-usage counters for
// cost accounting.
type Completion struct {
	Content      string
	Model        string
	TokensInput  int
	TokensOutput int
}

// Client is the text-generation client. Calls are synchronous and are not
// retried; callers decide how a failure degrades.
type Client interface {
	// Complete submits the ordered transcript and returns one generated
	// assistant message.
	Complete(ctx context.Context, transcript models.Transcript) (*Completion, error)
}
