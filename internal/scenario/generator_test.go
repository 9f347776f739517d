package scenario_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscesim/consult-service/internal/domain/models"
	"github.com/oscesim/consult-service/internal/scenario"
)

func newGenerator(seed int64) *scenario.Generator {
	return scenario.NewGenerator(nil, rand.New(rand.NewSource(seed)))
}

func TestGenerate_Respiratory(t *testing.T) {
	// Arrange
	gen := newGenerator(1)

	// Act
	s := gen.Generate(models.ScenarioConfig{BodySystem: "respiratory"})

	// Assert
	require.NotNil(t, s)
	assert.Equal(t, "respiratory", s.BodySystem)
	assert.Contains(t, scenario.DefaultCatalog().Complaints["respiratory"], s.Complaint)
	assert.Contains(t, s.Instruction, scenario.OpeningLine)
	assert.Contains(t, s.Instruction, s.Complaint)
	assert.Contains(t, s.Instruction, s.Persona.Name)
	assert.Contains(t, s.Instruction, "never reveal that you are an AI")
}

func TestGenerate_RandomBodySystemPoolsAcrossAll(t *testing.T) {
	gen := newGenerator(2)
	catalog := scenario.DefaultCatalog()

	for i := 0; i < 20; i++ {
		s := gen.Generate(models.ScenarioConfig{BodySystem: models.BodySystemRandom})

		pool, ok := catalog.Complaints[s.BodySystem]
		require.True(t, ok, "complaint must be attributed to a known body system")
		assert.Contains(t, pool, s.Complaint)
	}
}

func TestGenerate_UnknownBodySystemFallsBackToPool(t *testing.T) {
	gen := newGenerator(3)

	s := gen.Generate(models.ScenarioConfig{BodySystem: "telepathic"})

	_, ok := scenario.DefaultCatalog().Complaints[s.BodySystem]
	assert.True(t, ok)
	assert.NotEqual(t, "telepathic", s.BodySystem)
}

func TestGenerate_ExplicitComorbidities(t *testing.T) {
	gen := newGenerator(4)

	s := gen.Generate(models.ScenarioConfig{
		BodySystem:      "cardiovascular",
		ComorbidityMode: models.ComorbidityExplicit,
	})

	// Older persona and five distinct conditions, all listed in the prompt.
	assert.GreaterOrEqual(t, s.Persona.Age, scenario.OlderPatientAge)
	require.Len(t, s.Comorbidities, scenario.ExplicitComorbidityCount)

	seen := make(map[string]struct{})
	for _, c := range s.Comorbidities {
		_, dup := seen[c]
		assert.False(t, dup, "comorbidity %q drawn twice", c)
		seen[c] = struct{}{}
		assert.Contains(t, s.Instruction, c)
	}
}

func TestGenerate_GenericComorbidityClause(t *testing.T) {
	gen := newGenerator(5)

	s := gen.Generate(models.ScenarioConfig{
		BodySystem:      "general",
		ComorbidityMode: models.ComorbidityGeneric,
	})

	assert.Empty(t, s.Comorbidities)
	assert.Contains(t, s.Instruction, "long-term conditions appropriate to your age")
}

func TestGenerate_MemoryIssuesRestrictsToOlderPersonas(t *testing.T) {
	gen := newGenerator(6)

	for i := 0; i < 20; i++ {
		s := gen.Generate(models.ScenarioConfig{
			BodySystem:        "neurological",
			PatientComplexity: models.PatientComplexityMemoryIssues,
		})
		assert.GreaterOrEqual(t, s.Persona.Age, scenario.OlderPatientAge)
		assert.Contains(t, s.Instruction, "struggle to recall dates")
	}
}

func TestGenerate_UnknownProblemComplexityFallsBack(t *testing.T) {
	gen := newGenerator(7)

	plain := gen.Generate(models.ScenarioConfig{BodySystem: "general"})
	labeled := gen.Generate(models.ScenarioConfig{BodySystem: "general", ProblemComplexity: "Impossible"})

	assert.Contains(t, plain.Instruction, "minimal details")
	assert.Contains(t, labeled.Instruction, "minimal details")
}

func TestGenerate_NomenclatureClause(t *testing.T) {
	gen := newGenerator(8)

	s := gen.Generate(models.ScenarioConfig{BodySystem: "general", Nomenclature: "the United Kingdom"})

	assert.Contains(t, s.Instruction, "the United Kingdom")
}

func TestRegenerate_KeepsPersona(t *testing.T) {
	gen := newGenerator(9)
	persona := models.Persona{Name: "John Smith", Age: 68, Gender: "male", Ethnicity: "British (White)"}

	s := gen.Regenerate(models.ScenarioConfig{BodySystem: "respiratory"}, persona)

	assert.Equal(t, persona, s.Persona)
	assert.Contains(t, s.Instruction, "John Smith")
}

func TestExamClause_UnknownSystemIsGeneric(t *testing.T) {
	catalog := scenario.DefaultCatalog()

	known := catalog.ExamClause("respiratory")
	unknown := catalog.ExamClause("something else")

	assert.Contains(t, known, "auscultation")
	assert.Contains(t, unknown, "focused general examination")
}

func TestGenerate_InstructionIsSingleParagraph(t *testing.T) {
	gen := newGenerator(10)

	s := gen.Generate(models.ScenarioConfig{BodySystem: "dermatological"})

	assert.False(t, strings.Contains(s.Instruction, "\n"))
}
