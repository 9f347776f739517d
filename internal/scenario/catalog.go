// Package scenario generates the persona, complaint and behavioural
// configuration that seeds a consultation.
package scenario

import "github.com/oscesim/consult-service/internal/domain/models"

// OlderPatientAge is the minimum persona age when the scenario demands an
// older patient (memory issues, explicit comorbidities).
const OlderPatientAge = 60

// Catalog holds the immutable data tables the generator draws from. It is
// shared read-only across all sessions.
type Catalog struct {
	Personas      []models.Persona
	Complaints    map[string][]string
	Comorbidities map[string][]string
	ExamClauses   map[string]string
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Personas:      defaultPersonas,
		Complaints:    defaultComplaints,
		Comorbidities: defaultComorbidities,
		ExamClauses:   defaultExamClauses,
	}
}

// BodySystems returns the recognised body-system labels.
func (c *Catalog) BodySystems() []string {
	systems := make([]string, 0, len(c.Complaints))
	for system := range c.Complaints {
		systems = append(systems, system)
	}
	return systems
}

// ExamClause returns the body-system-specific examination clause, or the
// generic clause for unknown labels.
func (c *Catalog) ExamClause(bodySystem string) string {
	if clause, ok := c.ExamClauses[bodySystem]; ok {
		return clause
	}
	return genericExamClause
}

var defaultPersonas = []models.Persona{
	{Name: "Aisha Patel", Age: 34, Gender: "female", Ethnicity: "South Asian (Indian)"},
	{Name: "John Smith", Age: 68, Gender: "male", Ethnicity: "British (White)"},
	{Name: "Li Wei", Age: 45, Gender: "male", Ethnicity: "East Asian (Chinese)"},
	{Name: "Fatima Ali", Age: 29, Gender: "female", Ethnicity: "Middle Eastern (Arabic)"},
	{Name: "Carlos Rivera", Age: 52, Gender: "male", Ethnicity: "Hispanic (Mexican)"},
	{Name: "Nia Okoye", Age: 61, Gender: "female", Ethnicity: "African (Nigerian)"},
	{Name: "Sofia Nguyen", Age: 26, Gender: "female", Ethnicity: "Southeast Asian (Vietnamese)"},
	{Name: "Mohamed Hassan", Age: 73, Gender: "male", Ethnicity: "African (Somali)"},
}

var defaultComplaints = map[string][]string{
	"respiratory": {
		"persistent cough",
		"shortness of breath",
		"sore throat",
		"runny nose",
		"chest tightness when breathing",
	},
	"cardiovascular": {
		"chest pain",
		"heart palpitations",
		"leg swelling",
		"breathlessness on exertion",
		"dizziness on standing",
	},
	"gastrointestinal": {
		"abdominal discomfort",
		"nausea",
		"constipation",
		"chronic diarrhoea",
		"unintentional weight loss",
	},
	"neurological": {
		"headache",
		"recurrent dizziness",
		"blurred vision",
		"muscle weakness",
		"reduced hearing",
	},
	"musculoskeletal": {
		"lower back pain",
		"joint stiffness",
		"muscle aches",
		"back pain radiating to the legs",
		"knee pain on walking",
	},
	"genitourinary": {
		"pain on urination",
		"frequent urination",
		"lower abdominal pain",
		"blood in the urine",
	},
	"dermatological": {
		"skin rash with itching",
		"dry flaky skin patches",
		"a mole that has changed shape",
	},
	"general": {
		"fever",
		"fatigue",
		"night sweats",
		"muscle aches",
	},
}

var defaultComorbidities = map[string][]string{
	"respiratory": {
		"asthma",
		"chronic obstructive pulmonary disease",
		"obstructive sleep apnoea",
	},
	"cardiovascular": {
		"hypertension",
		"atrial fibrillation",
		"ischaemic heart disease",
		"heart failure",
		"peripheral vascular disease",
	},
	"gastrointestinal": {
		"gastro-oesophageal reflux disease",
		"diverticular disease",
		"irritable bowel syndrome",
	},
	"neurological": {
		"migraine",
		"previous transient ischaemic attack",
		"peripheral neuropathy",
	},
	"musculoskeletal": {
		"osteoarthritis",
		"osteoporosis",
		"gout",
	},
	"genitourinary": {
		"benign prostatic hyperplasia",
		"chronic kidney disease",
		"recurrent urinary tract infections",
	},
	"endocrine": {
		"type 2 diabetes",
		"hypothyroidism",
	},
}

const genericExamClause = "Perform a focused general examination relevant to the presenting complaint, commenting on general appearance, hydration and any abnormal findings."

var defaultExamClauses = map[string]string{
	"respiratory":      "Report chest expansion, percussion note, breath sounds and any added sounds on auscultation, and oxygen requirements.",
	"cardiovascular":   "Report pulse character and rhythm, jugular venous pressure, heart sounds and any murmurs, and the presence or absence of peripheral oedema.",
	"gastrointestinal": "Report abdominal inspection, tenderness or guarding on palpation, organomegaly, bowel sounds and any masses.",
	"neurological":     "Report conscious level, cranial nerve findings, limb tone, power, reflexes, sensation and coordination.",
	"musculoskeletal":  "Report the look, feel and movement of the affected region, the active and passive range of motion, and any deformity or joint swelling.",
	"genitourinary":    "Report abdominal and loin tenderness, bladder palpability and any relevant urinalysis findings.",
	"dermatological":   "Describe the distribution, morphology and colour of any skin lesions and the state of the surrounding skin.",
}
