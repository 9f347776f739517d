package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RubricScore is one scored category of the communication rubric.
type RubricScore struct {
	Score   int    `json:"score" bson:"score"`
	Comment string `json:"comment" bson:"comment"`
}

// FeedbackResult is the fixed-shape structured evaluation returned by the
// text-generation service. Overall is stored exactly as received; the service
// does not recompute it from the category scores.
type FeedbackResult struct {
	InitiatingSession    RubricScore `json:"initiating_session" bson:"initiatingSession"`
	GatheringInformation RubricScore `json:"gathering_information" bson:"gatheringInformation"`
	PhysicalExamination  RubricScore `json:"physical_examination" bson:"physicalExamination"`
	ExplanationPlanning  RubricScore `json:"explanation_planning" bson:"explanationPlanning"`
	ClosingSession       RubricScore `json:"closing_session" bson:"closingSession"`
	BuildingRelationship RubricScore `json:"building_relationship" bson:"buildingRelationship"`
	ProvidingStructure   RubricScore `json:"providing_structure" bson:"providingStructure"`
	Overall              int         `json:"overall" bson:"overall"`
	ClinicalReasoning    string      `json:"clinical_reasoning" bson:"clinicalReasoning"`
}

// Categories returns the seven rubric categories in display order.
func (r *FeedbackResult) Categories() []struct {
	Name  string
	Score RubricScore
} {
	return []struct {
		Name  string
		Score RubricScore
	}{
		{"Initiating the session", r.InitiatingSession},
		{"Gathering information", r.GatheringInformation},
		{"Physical examination", r.PhysicalExamination},
		{"Explanation and planning", r.ExplanationPlanning},
		{"Closing the session", r.ClosingSession},
		{"Building the relationship", r.BuildingRelationship},
		{"Providing structure", r.ProvidingStructure},
	}
}

// Feedback is the stored feedback artifact. Raw always holds the verbatim
// model output; Result is set only when that output parsed as the rubric
// shape.
type Feedback struct {
	Result      *FeedbackResult `json:"result,omitempty" bson:"result,omitempty"`
	Raw         string          `json:"raw" bson:"raw"`
	GeneratedAt time.Time       `json:"generatedAt" bson:"generatedAt"`
}

// feedbackEnvelope mirrors FeedbackResult with pointer fields so missing keys
// can be told apart from zero values.
type feedbackEnvelope struct {
	InitiatingSession    *RubricScore `json:"initiating_session"`
	GatheringInformation *RubricScore `json:"gathering_information"`
	PhysicalExamination  *RubricScore `json:"physical_examination"`
	ExplanationPlanning  *RubricScore `json:"explanation_planning"`
	ClosingSession       *RubricScore `json:"closing_session"`
	BuildingRelationship *RubricScore `json:"building_relationship"`
	ProvidingStructure   *RubricScore `json:"providing_structure"`
	Overall              *int         `json:"overall"`
	ClinicalReasoning    *string      `json:"clinical_reasoning"`
}

// ParseFeedbackResult parses model output into a FeedbackResult. The only
// source of this data is a third-party text generator which does not always
// honour the requested shape, so the parse is defensive: markdown fences and
// surrounding prose are stripped, every rubric category must be present with a
// score in 1..10, and overall must be in 0..70. The category sum is not
// checked against overall.
func ParseFeedbackResult(raw string) (*FeedbackResult, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object found in feedback output")
	}

	var env feedbackEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, fmt.Errorf("failed to decode feedback JSON: %w", err)
	}

	categories := map[string]*RubricScore{
		"initiating_session":    env.InitiatingSession,
		"gathering_information": env.GatheringInformation,
		"physical_examination":  env.PhysicalExamination,
		"explanation_planning":  env.ExplanationPlanning,
		"closing_session":       env.ClosingSession,
		"building_relationship": env.BuildingRelationship,
		"providing_structure":   env.ProvidingStructure,
	}
	for name, score := range categories {
		if score == nil {
			return nil, fmt.Errorf("feedback JSON missing category %q", name)
		}
		if score.Score < 1 || score.Score > 10 {
			return nil, fmt.Errorf("category %q score %d out of range 1-10", name, score.Score)
		}
	}
	if env.Overall == nil {
		return nil, fmt.Errorf("feedback JSON missing overall score")
	}
	if *env.Overall < 0 || *env.Overall > 70 {
		return nil, fmt.Errorf("overall score %d out of range 0-70", *env.Overall)
	}

	result := &FeedbackResult{
		InitiatingSession:    *env.InitiatingSession,
		GatheringInformation: *env.GatheringInformation,
		PhysicalExamination:  *env.PhysicalExamination,
		ExplanationPlanning:  *env.ExplanationPlanning,
		ClosingSession:       *env.ClosingSession,
		BuildingRelationship: *env.BuildingRelationship,
		ProvidingStructure:   *env.ProvidingStructure,
		Overall:              *env.Overall,
	}
	if env.ClinicalReasoning != nil {
		result.ClinicalReasoning = *env.ClinicalReasoning
	}
	return result, nil
}

// extractJSONObject returns the outermost {...} span of the input, tolerating
// markdown code fences and prose around the object.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}
