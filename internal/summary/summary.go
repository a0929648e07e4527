// Package summary aggregates per-clause verdicts into an overall review
// decision and issue list.
package summary

import (
	"sort"

	"github.com/veridia/clauseguard/internal/clauses"
)

// Review decisions in descending severity.
const (
	DecisionReject       = "REJECT"
	DecisionNeedsChanges = "NEEDS_CHANGES"
	DecisionReview       = "REVIEW"
	DecisionOK           = "OK"
)

// Input is the slice of one clause evaluation the summary needs.
type Input struct {
	ClauseType      clauses.Type
	RiskLabel       clauses.RiskLabel
	ShortReason     string
	SuggestedChange string
}

// Issue is one not-fully-acceptable evaluation surfaced in the summary.
type Issue struct {
	ClauseType      clauses.Type      `json:"clause_type"`
	RiskLabel       clauses.RiskLabel `json:"risk_label"`
	ShortReason     string            `json:"short_reason"`
	SuggestedChange string            `json:"suggested_change,omitempty"`
}

// Summary is the aggregate outcome of a review.
type Summary struct {
	Counts        map[clauses.RiskLabel]int `json:"counts"`
	CriticalRisks []clauses.Type            `json:"critical_risks"`
	Issues        []Issue                   `json:"issues"`
}

// Build tallies the evaluations and derives the review decision. Decision
// policy, in order: any unacceptable critical clause rejects the contract;
// any other unacceptable clause demands changes; any ambiguous clause
// demands review; otherwise the contract is acceptable.
func Build(evaluations []Input) (string, Summary) {
	counts := map[clauses.RiskLabel]int{
		clauses.RiskAcceptable:   0,
		clauses.RiskAmbiguous:    0,
		clauses.RiskUnacceptable: 0,
	}

	var criticalRisks []clauses.Type
	var issues []Issue

	for _, evaluation := range evaluations {
		counts[evaluation.RiskLabel]++

		if evaluation.RiskLabel == clauses.RiskUnacceptable && evaluation.ClauseType.Critical() {
			criticalRisks = append(criticalRisks, evaluation.ClauseType)
		}

		if evaluation.RiskLabel != clauses.RiskAcceptable {
			issues = append(issues, Issue{
				ClauseType:      evaluation.ClauseType,
				RiskLabel:       evaluation.RiskLabel,
				ShortReason:     evaluation.ShortReason,
				SuggestedChange: evaluation.SuggestedChange,
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		iUnacceptable := issues[i].RiskLabel == clauses.RiskUnacceptable
		jUnacceptable := issues[j].RiskLabel == clauses.RiskUnacceptable
		if iUnacceptable != jUnacceptable {
			return iUnacceptable
		}
		return issues[i].ClauseType < issues[j].ClauseType
	})

	decision := DecisionOK
	switch {
	case len(criticalRisks) > 0:
		decision = DecisionReject
	case counts[clauses.RiskUnacceptable] > 0:
		decision = DecisionNeedsChanges
	case counts[clauses.RiskAmbiguous] > 0:
		decision = DecisionReview
	}

	return decision, Summary{
		Counts:        counts,
		CriticalRisks: criticalRisks,
		Issues:        issues,
	}
}
