package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathdrill/internal/bank"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Skill is one practice entry offered for a grade.
type Skill struct {
	ID         string     `yaml:"id" json:"id"`
	Label      string     `yaml:"label" json:"label"`
	Bank       string     `yaml:"bank" json:"bank"`
	SkillCode  string     `yaml:"skillCode,omitempty" json:"skillCode,omitempty"`
	SkillCodes []string   `yaml:"skillCodes,omitempty" json:"skillCodes,omitempty"`
	Premium    bool       `yaml:"premium,omitempty" json:"premium,omitempty"`
	Grade      bank.Grade `yaml:"-" json:"grade"`
}

// Selector returns the bank filter for this skill. A code set takes
// precedence over a single code; with neither the whole bank is used.
func (s Skill) Selector() bank.Selector {
	switch {
	case len(s.SkillCodes) > 0:
		return bank.Codes(s.SkillCodes...)
	case s.SkillCode != "":
		return bank.Code(s.SkillCode)
	default:
		return bank.All()
	}
}

// Catalog maps grades to their skills in display order.
type Catalog struct {
	byGrade map[bank.Grade][]Skill
}

// Parse decodes a catalog document keyed by grade tag.
func Parse(raw []byte) (*Catalog, error) {
	var doc map[string][]Skill
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byGrade: make(map[bank.Grade][]Skill, len(doc))}
	for tag, skills := range doc {
		g, err := bank.ParseGrade(tag)
		if err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		for i := range skills {
			skills[i].Grade = g
		}
		c.byGrade[g] = skills
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(catalogYAML)
	})
	return defaultCat, defaultErr
}

// Grades returns the grades that have at least one skill, in display order.
func (c *Catalog) Grades() []bank.Grade {
	var out []bank.Grade
	for _, g := range bank.AllGrades() {
		if len(c.byGrade[g]) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// ByGrade returns the skills for a grade in catalog order.
func (c *Catalog) ByGrade(g bank.Grade) []Skill {
	return slices.Clone(c.byGrade[g])
}

// Lookup finds a skill by grade and id. Skill ids are only unique within a
// grade.
func (c *Catalog) Lookup(g bank.Grade, id string) (Skill, bool) {
	for _, s := range c.byGrade[g] {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// Banks returns the distinct bank ids referenced by the catalog, sorted.
func (c *Catalog) Banks() []string {
	var out []string
	for _, skills := range c.byGrade {
		for _, s := range skills {
			if !slices.Contains(out, s.Bank) {
				out = append(out, s.Bank)
			}
		}
	}
	slices.Sort(out)
	return out
}

func (c *Catalog) validate() error {
	var errs []string
	for _, g := range bank.AllGrades() {
		seen := make(map[string]bool)
		for _, s := range c.byGrade[g] {
			if s.ID == "" {
				errs = append(errs, fmt.Sprintf("grade %s: skill with empty id", g))
				continue
			}
			if seen[s.ID] {
				errs = append(errs, fmt.Sprintf("grade %s: duplicate skill id %q", g, s.ID))
			}
			seen[s.ID] = true
			if s.Bank == "" {
				errs = append(errs, fmt.Sprintf("grade %s skill %q: no bank", g, s.ID))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// CheckBanks reports every skill whose bank is missing from src or whose
// selector matches no questions.
func (c *Catalog) CheckBanks(src bank.Source) error {
	var errs []error
	for _, g := range c.Grades() {
		for _, s := range c.byGrade[g] {
			qs, err := src.Load(s.Bank)
			if err != nil {
				errs = append(errs, fmt.Errorf("grade %s skill %q: %w", g, s.ID, err))
				continue
			}
			if len(bank.Filter(qs, s.Selector())) == 0 {
				errs = append(errs, fmt.Errorf("grade %s skill %q: no questions match %s", g, s.ID, s.Selector()))
			}
		}
	}
	return errors.Join(errs...)
}
