package catalog

import (
	"errors"
	"fmt"
)

// ErrSubjectNotFound indicates a subject code absent from the catalog.
// Codes produced inside the system always resolve; imported data may not.
var ErrSubjectNotFound = errors.New("subject not found")

// SubjectDefinition describes one subject tracked by the gradebook.
type SubjectDefinition struct {
	Code                string `json:"code"`
	DisplayName         string `json:"display_name"`
	CountsTowardAverage bool   `json:"counts_toward_average"`
	Term                int    `json:"term"`
	Mandatory           bool   `json:"mandatory"`
	PrerequisiteCode    string `json:"prerequisite_code,omitempty"`
}

// Catalog is the immutable process-wide subject registry. It is built once
// at startup and never mutated afterwards.
type Catalog struct {
	subjects []SubjectDefinition
	byCode   map[string]SubjectDefinition
}

// New builds a catalog from the given definitions, preserving declaration
// order. It fails on duplicate codes and on prerequisites that do not
// resolve to another subject in the same catalog.
func New(subjects []SubjectDefinition) (*Catalog, error) {
	byCode := make(map[string]SubjectDefinition, len(subjects))
	for _, subject := range subjects {
		if subject.Code == "" {
			return nil, fmt.Errorf("subject with empty code")
		}
		if _, exists := byCode[subject.Code]; exists {
			return nil, fmt.Errorf("duplicate subject code %q", subject.Code)
		}
		byCode[subject.Code] = subject
	}

	for _, subject := range subjects {
		if subject.PrerequisiteCode == "" {
			continue
		}
		if _, ok := byCode[subject.PrerequisiteCode]; !ok {
			return nil, fmt.Errorf("subject %q references unknown prerequisite %q", subject.Code, subject.PrerequisiteCode)
		}
	}

	ordered := make([]SubjectDefinition, len(subjects))
	copy(ordered, subjects)

	return &Catalog{subjects: ordered, byCode: byCode}, nil
}

// Lookup returns the definition for code or ErrSubjectNotFound.
func (c *Catalog) Lookup(code string) (SubjectDefinition, error) {
	subject, ok := c.byCode[code]
	if !ok {
		return SubjectDefinition{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, code)
	}
	return subject, nil
}

// SubjectsForTerm returns the subjects belonging to term in declaration order.
func (c *Catalog) SubjectsForTerm(term int) []SubjectDefinition {
	var out []SubjectDefinition
	for _, subject := range c.subjects {
		if subject.Term == term {
			out = append(out, subject)
		}
	}
	return out
}

// Subjects returns every definition in declaration order.
func (c *Catalog) Subjects() []SubjectDefinition {
	out := make([]SubjectDefinition, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// Codes returns every subject code in declaration order. Exports rely on
// this order being stable.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.subjects))
	for _, subject := range c.subjects {
		codes = append(codes, subject.Code)
	}
	return codes
}

// CountsTowardAverage reports whether code contributes to the grade average.
// Unknown codes do not contribute.
func (c *Catalog) CountsTowardAverage(code string) bool {
	subject, ok := c.byCode[code]
	return ok && subject.CountsTowardAverage
}

// Default returns the catalog observed in the stock deployment: seven
// graded subjects across two terms plus physical education, which is
// recorded but excluded from averages.
func Default() *Catalog {
	c, err := New([]SubjectDefinition{
		{Code: "math", DisplayName: "Mathematics", CountsTowardAverage: true, Term: 1, Mandatory: true},
		{Code: "physics", DisplayName: "Physics", CountsTowardAverage: true, Term: 1},
		{Code: "chemistry", DisplayName: "Chemistry", CountsTowardAverage: true, Term: 1},
		{Code: "literature", DisplayName: "Literature", CountsTowardAverage: true, Term: 1, Mandatory: true},
		{Code: "physical_education", DisplayName: "Physical Education", CountsTowardAverage: false, Term: 1},
		{Code: "english", DisplayName: "English", CountsTowardAverage: true, Term: 2},
		{Code: "informatics", DisplayName: "Informatics", CountsTowardAverage: true, Term: 2},
		{Code: "programming", DisplayName: "Programming", CountsTowardAverage: true, Term: 2, PrerequisiteCode: "informatics"},
	})
	if err != nil {
		panic(err)
	}
	return c
}
