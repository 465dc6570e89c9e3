// Package catalog holds the static per-track interview phase definitions:
// ordered phases, per-phase discussion guidance, and evaluation keyword sets.
// Catalogs are built once at process start and read-only thereafter.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/config"
)

// Phase is one named stage of a structured interview.
type Phase struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CoverageSource selects which transcript messages feed keyword coverage.
type CoverageSource string

const (
	CoverageUser CoverageSource = "user" // candidate messages only
	CoverageAll  CoverageSource = "all"  // full transcript
)

// Catalog is the phase list for one (company, interview_type) track.
type Catalog struct {
	Company        string
	InterviewType  string
	MaxTurns       int
	CoverageSource CoverageSource

	phases   []Phase
	contexts map[string]string
	keywords map[string][]string
}

// New builds a Catalog from configuration.
func New(cc config.CatalogConfig) (*Catalog, error) {
	if cc.Company == "" || cc.InterviewType == "" {
		return nil, fmt.Errorf("catalog requires company and interview_type")
	}
	if len(cc.Phases) == 0 {
		return nil, fmt.Errorf("catalog %s/%s has no phases", cc.Company, cc.InterviewType)
	}

	c := &Catalog{
		Company:        cc.Company,
		InterviewType:  cc.InterviewType,
		MaxTurns:       cc.MaxTurns,
		CoverageSource: CoverageSource(cc.CoverageSource),
		contexts:       make(map[string]string, len(cc.Phases)),
		keywords:       make(map[string][]string, len(cc.Phases)),
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = config.DefaultMaxTurns
	}
	if c.CoverageSource == "" {
		c.CoverageSource = CoverageUser
	}
	if c.CoverageSource != CoverageUser && c.CoverageSource != CoverageAll {
		return nil, fmt.Errorf("catalog %s/%s: unknown coverage_source %q", cc.Company, cc.InterviewType, cc.CoverageSource)
	}

	for _, pc := range cc.Phases {
		if pc.ID == "" {
			return nil, fmt.Errorf("catalog %s/%s: phase with empty id", cc.Company, cc.InterviewType)
		}
		if _, dup := c.contexts[pc.ID]; dup {
			return nil, fmt.Errorf("catalog %s/%s: duplicate phase id %q", cc.Company, cc.InterviewType, pc.ID)
		}
		c.phases = append(c.phases, Phase{ID: pc.ID, Name: pc.Name})
		c.contexts[pc.ID] = pc.Context
		c.keywords[pc.ID] = append([]string(nil), pc.Keywords...)
	}
	return c, nil
}

// Phases returns the ordered phase list.
func (c *Catalog) Phases() []Phase {
	out := make([]Phase, len(c.phases))
	copy(out, c.phases)
	return out
}

// Len returns the number of phases.
func (c *Catalog) Len() int { return len(c.phases) }

// Has reports whether a phase id exists in this catalog.
func (c *Catalog) Has(phaseID string) bool {
	_, ok := c.contexts[phaseID]
	return ok
}

// Context returns the discussion guidance for a phase, empty if unknown.
func (c *Catalog) Context(phaseID string) string {
	return c.contexts[phaseID]
}

// Keywords returns the evaluation keyword list for a phase. A phase with no
// configured keywords returns an empty list, which the evaluator treats as
// trivially covered.
func (c *Catalog) Keywords(phaseID string) []string {
	return append([]string(nil), c.keywords[phaseID]...)
}

type trackKey struct {
	company       string
	interviewType string
}

// Set indexes catalogs by (company, interview_type) and doubles as the
// routing whitelist: a combination is valid iff a catalog exists for it.
type Set struct {
	byTrack map[trackKey]*Catalog
}

// NewSet builds a Set from configuration, falling back to the built-in
// catalogs when none are configured.
func NewSet(configs []config.CatalogConfig) (*Set, error) {
	if len(configs) == 0 {
		configs = Builtins()
	}
	s := &Set{byTrack: make(map[trackKey]*Catalog, len(configs))}
	for _, cc := range configs {
		c, err := New(cc)
		if err != nil {
			return nil, err
		}
		k := trackKey{normalize(c.Company), normalize(c.InterviewType)}
		if _, dup := s.byTrack[k]; dup {
			return nil, fmt.Errorf("duplicate catalog for %s/%s", c.Company, c.InterviewType)
		}
		s.byTrack[k] = c
	}
	return s, nil
}

// Lookup returns the catalog for a (company, interview_type) pair.
func (s *Set) Lookup(company, interviewType string) (*Catalog, bool) {
	c, ok := s.byTrack[trackKey{normalize(company), normalize(interviewType)}]
	return c, ok
}

// SupportedTypes returns the interview types available for a company, sorted.
func (s *Set) SupportedTypes(company string) []string {
	var types []string
	for k := range s.byTrack {
		if k.company == normalize(company) {
			types = append(types, k.interviewType)
		}
	}
	sort.Strings(types)
	return types
}

// Combinations returns every valid "company/interview_type" pair, sorted.
func (s *Set) Combinations() []string {
	out := make([]string, 0, len(s.byTrack))
	for k := range s.byTrack {
		out = append(out, k.company+"/"+k.interviewType)
	}
	sort.Strings(out)
	return out
}

// Validate checks a routing combination against the whitelist. The error
// message lists the valid combinations so it can be surfaced to the user
// verbatim.
func (s *Set) Validate(company, interviewType string) error {
	if _, ok := s.Lookup(company, interviewType); ok {
		return nil
	}
	return fmt.Errorf("unsupported combination %s/%s (valid: %s)",
		normalize(company), normalize(interviewType), strings.Join(s.Combinations(), ", "))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
