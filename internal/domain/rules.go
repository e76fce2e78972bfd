package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyTerm is returned when a rule has no full term to match.
	ErrEmptyTerm = errors.New("replacement rule has an empty term")

	// ErrDuplicateTerm is returned when two rules match the same term
	// (compared case-insensitively).
	ErrDuplicateTerm = errors.New("duplicate replacement term")
)

// ReplacementRule maps a whole word to the abbreviation that replaces it.
// FullTerm matches case-insensitively; Abbreviation is inserted verbatim.
type ReplacementRule struct {
	FullTerm     string `yaml:"term" json:"term"`
	Abbreviation string `yaml:"abbreviation" json:"abbreviation"`
}

// defaultRules is the abbreviation table applied to every relay reply.
var defaultRules = []ReplacementRule{
	{"temperature", "temp"},
	{"degrees", "°"},
	{"fahrenheit", "F"},
	{"celsius", "C"},
	{"weather", "wx"},
	{"forecast", "fcst"},
	{"precipitation", "precip"},
	{"humidity", "humid"},
	{"kilometers", "km"},
	{"meters", "m"},
	{"miles", "mi"},
	{"emergency", "emerg"},
	{"medical", "med"},
	{"hospital", "hosp"},
	{"should", "shld"},
	{"would", "wld"},
	{"could", "cld"},
	{"minute", "min"},
	{"hour", "hr"},
	{"second", "sec"},
	{"north", "N"},
	{"south", "S"},
	{"east", "E"},
	{"west", "W"},
	{"approximately", "~"},
	{"between", "btwn"},
	{"without", "w/o"},
	{"with", "w/"},
	{"and", "&"},
	{"you", "u"},
	{"your", "ur"},
	{"are", "r"},
	{"to", "2"},
	{"for", "4"},
	{"at", "@"},
}

// DefaultRules returns a copy of the built-in abbreviation table.
func DefaultRules() []ReplacementRule {
	rules := make([]ReplacementRule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// ValidateRules checks that every rule has a term and that no two rules
// share a term.
func ValidateRules(rules []ReplacementRule) error {
	seen := make(map[string]int, len(rules))
	for i, r := range rules {
		if r.FullTerm == "" {
			return fmt.Errorf("rule %d: %w", i, ErrEmptyTerm)
		}
		key := strings.ToLower(r.FullTerm)
		if j, ok := seen[key]; ok {
			return fmt.Errorf("rules %d and %d (%q): %w", j, i, r.FullTerm, ErrDuplicateTerm)
		}
		seen[key] = i
	}
	return nil
}

// ruleFile is the on-disk YAML layout for custom rule sets:
//
//	rules:
//	  - term: temperature
//	    abbreviation: temp
type ruleFile struct {
	Rules []ReplacementRule `yaml:"rules"`
}

// LoadRules decodes and validates a YAML rule set.
func LoadRules(r io.Reader) ([]ReplacementRule, error) {
	var f ruleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("rule file is empty")
		}
		return nil, fmt.Errorf("decode rule file: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, errors.New("rule file defines no rules")
	}
	if err := ValidateRules(f.Rules); err != nil {
		return nil, err
	}
	return f.Rules, nil
}
