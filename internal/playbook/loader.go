package playbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/veridia/clauseguard/internal/clauses"
)

// LoadError describes a playbook source that could not be loaded or validated.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load playbook: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("load playbook: %s", e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader loads playbooks from disk, caching each by resolved absolute path.
// Cached playbooks are immutable and shared; concurrent loads are safe.
type Loader struct {
	mu    sync.RWMutex
	cache map[string]*Playbook
}

// NewLoader creates an empty playbook loader.
func NewLoader() *Loader {
	return &Loader{cache: make(map[string]*Playbook)}
}

// Load returns the playbook at path, reading and validating it on first use.
// An empty or missing path yields the empty playbook rather than an error.
func (l *Loader) Load(path string) (*Playbook, error) {
	if strings.TrimSpace(path) == "" {
		return Empty(), nil
	}

	resolved, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Reason: fmt.Sprintf("resolve path %q", path), Err: err}
	}

	l.mu.RLock()
	cached, ok := l.cache[resolved]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.store(resolved, Empty()), nil
		}
		return nil, &LoadError{Reason: fmt.Sprintf("read %q", resolved), Err: err}
	}

	pb, err := parse(data)
	if err != nil {
		return nil, err
	}

	return l.store(resolved, pb), nil
}

func (l *Loader) store(key string, pb *Playbook) *Playbook {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.cache[key]; ok {
		return existing
	}
	l.cache[key] = pb
	return pb
}

func (n ruleNode) validate(index int) (Rule, error) {
	if n.RuleID == "" {
		return Rule{}, &LoadError{Reason: fmt.Sprintf("rule %d: missing rule_id", index)}
	}
	if n.Requirement == "" {
		return Rule{}, &LoadError{Reason: fmt.Sprintf("rule %s: missing requirement", n.RuleID)}
	}
	if n.Severity == "" {
		return Rule{}, &LoadError{Reason: fmt.Sprintf("rule %s: missing severity", n.RuleID)}
	}

	clauseType, ok := clauses.Resolve(n.ClauseType)
	if !ok {
		return Rule{}, &LoadError{
			Reason: fmt.Sprintf("rule %s: unknown clause type %q", n.RuleID, n.ClauseType),
		}
	}

	keywords := make([]string, 0, len(n.Keywords))
	for _, kw := range n.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return Rule{
		ID:                n.RuleID,
		ClauseType:        clauseType,
		Title:             n.Title,
		Requirement:       n.Requirement,
		PreferredPosition: n.PreferredPosition,
		FallbackPosition:  n.FallbackPosition,
		RedFlag:           n.RedFlag,
		Severity:          n.Severity,
		Mandatory:         n.Mandatory,
		Keywords:          keywords,
	}, nil
}
