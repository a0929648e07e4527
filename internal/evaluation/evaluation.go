// Package evaluation produces one risk verdict per clause type for every
// review run. Clause types with no candidate segments are judged by a fixed
// missing-clause rule; clause types with candidates are judged by the
// external model against the playbook, behind strict response validation.
// The evaluator never fails a pipeline run: every unusable external response
// degrades to a fixed ambiguous verdict.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/playbook"
	"github.com/veridia/clauseguard/internal/provider"
	"github.com/veridia/clauseguard/pkg/retry"
)

// Verdict is the evaluation outcome for one clause type.
type Verdict struct {
	RiskLabel        clauses.RiskLabel
	ShortReason      string
	SuggestedChange  string
	CandidateQuotes  []string
	TriggeredRuleIDs []string
}

// Evaluator judges clause types against playbook rules.
type Evaluator struct {
	provider    provider.Provider
	policy      retry.Policy
	charBudget  int
	useExternal bool
	logger      *slog.Logger
}

// Options configures an evaluator. Provider may be nil when external
// evaluation is disabled.
type Options struct {
	Provider    provider.Provider
	Policy      retry.Policy
	CharBudget  int
	UseExternal bool
	Logger      *slog.Logger
}

// New creates an evaluator.
func New(opts Options) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Evaluator{
		provider:    opts.Provider,
		policy:      opts.Policy,
		charBudget:  opts.CharBudget,
		useExternal: opts.UseExternal,
		logger:      opts.Logger,
	}
}

// EvaluateMissing produces the verdict for a clause type no segment was
// classified as. Critical clause types are unacceptable when absent; all
// others are ambiguous.
func EvaluateMissing(clauseType clauses.Type) Verdict {
	label := clauses.RiskAmbiguous
	prefix := "Clause missing"
	if clauseType.Critical() {
		label = clauses.RiskUnacceptable
		prefix = "Critical clause missing"
	}

	return Verdict{
		RiskLabel:       label,
		ShortReason:     fmt.Sprintf("%s: %s.", prefix, clauseType),
		SuggestedChange: fmt.Sprintf("Add a %s clause that meets GDPR requirements.", clauseType),
	}
}

// Evaluate judges a clause type against its candidate segments. When
// external evaluation is disabled a fixed placeholder verdict is returned;
// otherwise the external model is consulted through the retry policy, and
// any call or validation failure degrades to the unavailable verdict.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	clauseType clauses.Type,
	segmentTexts []string,
	reviewContext map[string]string,
	rules []playbook.Rule,
) Verdict {
	if !e.useExternal || e.provider == nil {
		return Verdict{
			RiskLabel:   clauses.RiskAmbiguous,
			ShortReason: fmt.Sprintf("External evaluation disabled; manual review required for %s.", clauseType),
		}
	}

	prompt := e.buildPrompt(clauseType, segmentTexts, reviewContext, rules)

	response, err := retry.Do(ctx, e.policy, func() (string, error) {
		return e.provider.Generate(ctx, prompt)
	})
	if err != nil {
		e.logger.Warn("clause evaluation call failed",
			"clause_type", clauseType,
			"error", err)
		return unavailableVerdict(clauseType)
	}

	verdict, err := parseVerdict(response)
	if err != nil {
		e.logger.Warn("clause evaluation response rejected",
			"clause_type", clauseType,
			"error", err)
		return unavailableVerdict(clauseType)
	}
	return verdict
}

func unavailableVerdict(clauseType clauses.Type) Verdict {
	return Verdict{
		RiskLabel:   clauses.RiskAmbiguous,
		ShortReason: fmt.Sprintf("Evaluation unavailable for %s; manual review required.", clauseType),
	}
}
