package models

// PatientComplexity selects a canned behavioural-tone clause for the patient.
type PatientComplexity string

const (
	// PatientComplexityNil adds no behavioural tone.
	PatientComplexityNil PatientComplexity = "Nil"
	// PatientComplexityMemoryIssues makes the patient vague about dates and
	// the order of events. Restricts persona selection to older patients.
	PatientComplexityMemoryIssues PatientComplexity = "MemoryIssues"
	// PatientComplexityFrustrated makes the patient irritable about waiting.
	PatientComplexityFrustrated PatientComplexity = "Frustrated"
)

// ComorbidityMode selects how much long-term-condition background the patient
// carries.
type ComorbidityMode string

const (
	// ComorbidityNone adds no comorbidity clause.
	ComorbidityNone ComorbidityMode = "no"
	// ComorbidityGeneric hints at unspecified age-appropriate conditions.
	ComorbidityGeneric ComorbidityMode = "yes"
	// ComorbidityExplicit draws five concrete conditions from the catalog and
	// restricts persona selection to age 60 or over.
	ComorbidityExplicit ComorbidityMode = "yes+"
)

// BodySystemRandom pools complaints across every body system.
const BodySystemRandom = "random"

// Persona is one entry of the fixed patient roster.
type Persona struct {
	Name      string `json:"name" bson:"name"`
	Age       int    `json:"age" bson:"age"`
	Gender    string `json:"gender" bson:"gender"`
	Ethnicity string `json:"ethnicity" bson:"ethnicity"`
}

// ScenarioConfig is the recognised option bundle for scenario generation.
type ScenarioConfig struct {
	// ProblemComplexity is a free-form label influencing prompt wording
	// ("Foundation", "Enhanced", "Advanced").
	ProblemComplexity string            `json:"problemComplexity"`
	PatientComplexity PatientComplexity `json:"patientComplexity"`
	ComorbidityMode   ComorbidityMode   `json:"comorbidityMode"`
	// BodySystem selects a complaint pool, or BodySystemRandom to pool across
	// all systems.
	BodySystem string `json:"bodySystem"`
	// Nomenclature is a country or nomenclature label substituted verbatim
	// into the instruction text.
	Nomenclature string `json:"nomenclature"`
}

// Scenario is the generated persona, complaint and behavioural configuration
// that seeds a consultation. Immutable after generation; Instruction is the
// full content of the scenario system message.
type Scenario struct {
	Persona           Persona           `json:"persona" bson:"persona"`
	Complaint         string            `json:"complaint" bson:"complaint"`
	BodySystem        string            `json:"bodySystem" bson:"bodySystem"`
	ProblemComplexity string            `json:"problemComplexity" bson:"problemComplexity"`
	PatientComplexity PatientComplexity `json:"patientComplexity" bson:"patientComplexity"`
	ComorbidityMode   ComorbidityMode   `json:"comorbidityMode" bson:"comorbidityMode"`
	Nomenclature      string            `json:"nomenclature" bson:"nomenclature"`
	// Comorbidities is populated only for ComorbidityExplicit.
	Comorbidities []string `json:"comorbidities,omitempty" bson:"comorbidities,omitempty"`
	Instruction   string   `json:"-" bson:"instruction"`
}
