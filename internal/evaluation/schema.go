package evaluation

import (
	"fmt"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/pkg/formatting"
)

// verdictResponse is the closed schema the external evaluator must return.
// Pointer fields distinguish absent keys from zero values; unknown keys are
// rejected by strict decoding.
type verdictResponse struct {
	RiskLabel        *string   `json:"risk_label"`
	ShortReason      *string   `json:"short_reason"`
	SuggestedChange  *string   `json:"suggested_change,omitempty"`
	CandidateQuotes  *[]string `json:"candidate_quotes"`
	TriggeredRuleIDs *[]string `json:"triggered_rule_ids"`
}

// parseVerdict decodes and validates an evaluator response. Every deviation
// from the schema is an error: the caller downgrades to a fallback verdict
// rather than trusting a partially valid response.
func parseVerdict(response string) (Verdict, error) {
	parsed, err := formatting.ParseStrict[verdictResponse](response)
	if err != nil {
		return Verdict{}, err
	}

	if parsed.RiskLabel == nil {
		return Verdict{}, fmt.Errorf("evaluator response missing risk_label")
	}
	if parsed.ShortReason == nil {
		return Verdict{}, fmt.Errorf("evaluator response missing short_reason")
	}
	if parsed.CandidateQuotes == nil {
		return Verdict{}, fmt.Errorf("evaluator response missing candidate_quotes")
	}
	if parsed.TriggeredRuleIDs == nil {
		return Verdict{}, fmt.Errorf("evaluator response missing triggered_rule_ids")
	}

	label := clauses.RiskLabel(*parsed.RiskLabel)
	if !label.Valid() {
		return Verdict{}, fmt.Errorf("evaluator response has unknown risk_label %q", *parsed.RiskLabel)
	}

	if label == clauses.RiskAcceptable && parsed.SuggestedChange != nil {
		return Verdict{}, fmt.Errorf("evaluator response pairs acceptable risk with a suggested_change")
	}

	verdict := Verdict{
		RiskLabel:        label,
		ShortReason:      *parsed.ShortReason,
		CandidateQuotes:  *parsed.CandidateQuotes,
		TriggeredRuleIDs: *parsed.TriggeredRuleIDs,
	}
	if parsed.SuggestedChange != nil {
		verdict.SuggestedChange = *parsed.SuggestedChange
	}
	return verdict, nil
}
