package scenario

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/oscesim/consult-service/internal/domain/models"
)

// Generator assembles scenarios from the catalog. It is a pure function of
// its inputs and the random source; it never fails.
type Generator struct {
	catalog *Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator over the given catalog. A nil rng falls
// back to a process-wide seeded source.
func NewGenerator(catalog *Catalog, rng *rand.Rand) *Generator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Generator{catalog: catalog, rng: rng}
}

// Catalog returns the generator's data tables.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

// Generate produces a scenario for the given configuration: a persona drawn
// from the roster (age-filtered when the configuration demands an older
// patient), a complaint drawn from the configured body-system pool, and the
// assembled system-message instruction.
func (g *Generator) Generate(cfg models.ScenarioConfig) *models.Scenario {
	persona := g.pickPersona(cfg)
	bodySystem, complaint := g.pickComplaint(cfg.BodySystem)

	s := &models.Scenario{
		Persona:           persona,
		Complaint:         complaint,
		BodySystem:        bodySystem,
		ProblemComplexity: cfg.ProblemComplexity,
		PatientComplexity: cfg.PatientComplexity,
		ComorbidityMode:   cfg.ComorbidityMode,
		Nomenclature:      cfg.Nomenclature,
	}
	if cfg.ComorbidityMode == models.ComorbidityExplicit {
		s.Comorbidities = g.drawComorbidities(ExplicitComorbidityCount)
	}
	s.Instruction = g.buildInstruction(s)
	return s
}

// Regenerate rebuilds a placeholder scenario keeping the given persona. Used
// by clear, which re-seeds the session without a remote call.
func (g *Generator) Regenerate(cfg models.ScenarioConfig, persona models.Persona) *models.Scenario {
	s := g.Generate(cfg)
	s.Persona = persona
	s.Instruction = g.buildInstruction(s)
	return s
}

func (g *Generator) pickPersona(cfg models.ScenarioConfig) models.Persona {
	pool := g.catalog.Personas
	if cfg.PatientComplexity == models.PatientComplexityMemoryIssues ||
		cfg.ComorbidityMode == models.ComorbidityExplicit {
		var older []models.Persona
		for _, p := range pool {
			if p.Age >= OlderPatientAge {
				older = append(older, p)
			}
		}
		if len(older) > 0 {
			pool = older
		}
	}
	return pool[g.intn(len(pool))]
}

func (g *Generator) pickComplaint(bodySystem string) (string, string) {
	if pool, ok := g.catalog.Complaints[bodySystem]; ok {
		return bodySystem, pool[g.intn(len(pool))]
	}

	// BodySystemRandom and unrecognised labels pool across all systems.
	systems := g.catalog.BodySystems()
	sort.Strings(systems)
	var pooled []string
	var owners []string
	for _, system := range systems {
		for _, complaint := range g.catalog.Complaints[system] {
			pooled = append(pooled, complaint)
			owners = append(owners, system)
		}
	}
	i := g.intn(len(pooled))
	return owners[i], pooled[i]
}

func (g *Generator) drawComorbidities(n int) []string {
	systems := make([]string, 0, len(g.catalog.Comorbidities))
	for system := range g.catalog.Comorbidities {
		systems = append(systems, system)
	}
	sort.Strings(systems)

	var pooled []string
	for _, system := range systems {
		pooled = append(pooled, g.catalog.Comorbidities[system]...)
	}
	if n > len(pooled) {
		n = len(pooled)
	}

	drawn := make([]string, 0, n)
	g.mu.Lock()
	perm := g.perm(len(pooled))
	g.mu.Unlock()
	for _, i := range perm[:n] {
		drawn = append(drawn, pooled[i])
	}
	return drawn
}

func (g *Generator) buildInstruction(s *models.Scenario) string {
	clauses := []string{
		fmt.Sprintf(roleFramingClause, s.Persona.Name, s.Persona.Age, s.Persona.Gender, s.Persona.Ethnicity),
		fmt.Sprintf(complaintClause, s.Complaint),
	}

	if s.Nomenclature != "" {
		clauses = append(clauses, fmt.Sprintf(nomenclatureClause, s.Nomenclature))
	}

	switch s.ComorbidityMode {
	case models.ComorbidityGeneric:
		clauses = append(clauses, comorbidityGenericClause)
	case models.ComorbidityExplicit:
		clauses = append(clauses, fmt.Sprintf(comorbidityExplicitClause, strings.Join(s.Comorbidities, ", ")))
	}

	if tone, ok := toneClauses[string(s.PatientComplexity)]; ok {
		clauses = append(clauses, tone)
	}

	complexity := s.ProblemComplexity
	if _, ok := problemComplexityClauses[complexity]; !ok {
		complexity = defaultProblemComplexity
	}
	clauses = append(clauses, problemComplexityClauses[complexity], examConsentClause, stayInCharacterClause)

	return strings.Join(clauses, " ")
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rng != nil {
		return g.rng.Intn(n)
	}
	return rand.Intn(n)
}

// perm must be called with the mutex held.
func (g *Generator) perm(n int) []int {
	if g.rng != nil {
		return g.rng.Perm(n)
	}
	return rand.Perm(n)
}
