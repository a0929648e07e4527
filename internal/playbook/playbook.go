// Package playbook loads and caches the versioned rule set that drives
// classification keywords and clause evaluation. Playbooks are externally
// authored YAML documents, immutable once loaded, and cached by resolved
// source path. A missing playbook is not an error: the system runs with
// zero configured rules, falling back to built-in classification defaults.
package playbook

import (
	"gopkg.in/yaml.v3"

	"github.com/veridia/clauseguard/internal/clauses"
)

// Rule is a single playbook requirement bound to a clause type.
type Rule struct {
	ID                string
	ClauseType        clauses.Type
	Title             string
	Requirement       string
	PreferredPosition string
	FallbackPosition  string
	RedFlag           string
	Severity          string
	Mandatory         bool
	Keywords          []string
}

// Playbook is an immutable, versioned rule set.
type Playbook struct {
	version  string
	rules    []Rule
	byType   map[clauses.Type][]Rule
	keywords map[clauses.Type][]string
}

// Empty returns a playbook with no rules and version "0", used when no
// playbook source is configured or the source file does not exist.
func Empty() *Playbook {
	return build("0", nil)
}

// Version returns the version string declared by the playbook source.
func (p *Playbook) Version() string {
	return p.version
}

// Rules returns all rules in source order.
func (p *Playbook) Rules() []Rule {
	return p.rules
}

// RulesFor returns the rules bound to the given clause type, in source order.
func (p *Playbook) RulesFor(t clauses.Type) []Rule {
	return p.byType[t]
}

// KeywordsFor returns the deduplicated lowercase keyword list contributed by
// rules for the given clause type, in order of first appearance. Returns nil
// when no rule contributes keywords for the type.
func (p *Playbook) KeywordsFor(t clauses.Type) []string {
	return p.keywords[t]
}

func build(version string, rules []Rule) *Playbook {
	p := &Playbook{
		version:  version,
		rules:    rules,
		byType:   make(map[clauses.Type][]Rule),
		keywords: make(map[clauses.Type][]string),
	}

	seen := make(map[clauses.Type]map[string]bool)

	for _, rule := range rules {
		p.byType[rule.ClauseType] = append(p.byType[rule.ClauseType], rule)

		if seen[rule.ClauseType] == nil {
			seen[rule.ClauseType] = make(map[string]bool)
		}
		for _, kw := range rule.Keywords {
			if kw == "" || seen[rule.ClauseType][kw] {
				continue
			}
			seen[rule.ClauseType][kw] = true
			p.keywords[rule.ClauseType] = append(p.keywords[rule.ClauseType], kw)
		}
	}

	return p
}

// yaml document shape

type playbookFile struct {
	Playbook playbookBlock `yaml:"playbook"`
}

type playbookBlock struct {
	ID      string     `yaml:"id"`
	Version string     `yaml:"version"`
	Rules   []ruleNode `yaml:"rules"`
}

type ruleNode struct {
	RuleID            string   `yaml:"rule_id"`
	ClauseType        string   `yaml:"clause_type"`
	Title             string   `yaml:"title"`
	Requirement       string   `yaml:"requirement"`
	PreferredPosition string   `yaml:"preferred_position"`
	FallbackPosition  string   `yaml:"fallback_position"`
	RedFlag           string   `yaml:"red_flag"`
	Severity          string   `yaml:"severity"`
	Mandatory         bool     `yaml:"mandatory"`
	Keywords          []string `yaml:"keywords"`
}

func parse(data []byte) (*Playbook, error) {
	var file playbookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Reason: "invalid yaml", Err: err}
	}

	version := file.Playbook.Version
	if version == "" {
		version = "0"
	}

	rules := make([]Rule, 0, len(file.Playbook.Rules))
	for i, node := range file.Playbook.Rules {
		rule, err := node.validate(i)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return build(version, rules), nil
}
