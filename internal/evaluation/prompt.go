package evaluation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/playbook"
)

func (e *Evaluator) buildPrompt(
	clauseType clauses.Type,
	segmentTexts []string,
	reviewContext map[string]string,
	rules []playbook.Rule,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You review data processing agreements. Assess the %q clause material below against the playbook rules.\n\n", clauseType.Label())

	if len(reviewContext) > 0 {
		b.WriteString("Review context:\n")
		keys := make([]string, 0, len(reviewContext))
		for key := range reviewContext {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", key, reviewContext[key])
		}
		b.WriteString("\n")
	}

	if len(rules) > 0 {
		b.WriteString("Playbook rules:\n")
		for _, rule := range rules {
			fmt.Fprintf(&b, "- [%s] %s\n", rule.ID, rule.Requirement)
			if rule.PreferredPosition != "" {
				fmt.Fprintf(&b, "  preferred position: %s\n", rule.PreferredPosition)
			}
			if rule.FallbackPosition != "" {
				fmt.Fprintf(&b, "  fallback position: %s\n", rule.FallbackPosition)
			}
			if rule.RedFlag != "" {
				fmt.Fprintf(&b, "  red flag: %s\n", rule.RedFlag)
			}
			fmt.Fprintf(&b, "  severity: %s, mandatory: %t\n", rule.Severity, rule.Mandatory)
		}
		b.WriteString("\n")
	}

	b.WriteString("Clause material:\n")
	b.WriteString(truncate(strings.Join(segmentTexts, "\n\n"), e.charBudget))
	b.WriteString("\n\n")

	b.WriteString(`Respond with a single JSON object and nothing else. Schema:
{
  "risk_label": "acceptable" | "ambiguous" | "unacceptable",
  "short_reason": string,
  "suggested_change": string (omit this key entirely when risk_label is "acceptable"),
  "candidate_quotes": string[] (verbatim excerpts from the clause material),
  "triggered_rule_ids": string[] (ids of playbook rules that apply)
}
Do not add any other keys.`)

	return b.String()
}

// truncate limits text to budget characters without splitting a rune.
func truncate(text string, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}

	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}
