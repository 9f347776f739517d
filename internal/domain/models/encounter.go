package models

import "time"

// Encounter is a completed consultation archived after feedback is produced.
// Token counters are kept for cost accounting.
type Encounter struct {
	ID           string     `json:"id" bson:"_id"`
	UserID       string     `json:"userId" bson:"userId"`
	Scenario     *Scenario  `json:"scenario" bson:"scenario"`
	Transcript   Transcript `json:"transcript" bson:"transcript"`
	Feedback     *Feedback  `json:"feedback" bson:"feedback"`
	TokensInput  int        `json:"tokensInput,omitempty" bson:"tokensInput,omitempty"`
	TokensOutput int        `json:"tokensOutput,omitempty" bson:"tokensOutput,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
}
