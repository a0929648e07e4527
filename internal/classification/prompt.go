package classification

import (
	"fmt"
	"strings"

	"github.com/veridia/clauseguard/internal/clauses"
)

func classificationPrompt(segmentText string) string {
	labels := make([]string, 0, clauses.Count())
	for _, clauseType := range clauses.All() {
		labels = append(labels, string(clauseType))
	}

	return fmt.Sprintf(`You classify contract clauses. Given the contract segment below, identify which clause types it addresses.

Valid clause types:
%s

Respond with a JSON array only. Each element must be an object with keys "clause_type" (one of the valid types) and "confidence" (number between 0 and 1). Return an empty array if no clause type applies.

Segment:
%s`, strings.Join(labels, "\n"), segmentText)
}
