// Package evidence verifies the quotes an evaluator cites against the
// candidate segments it was shown. Only verbatim substrings survive; a quote
// no candidate contains is treated as an unverifiable citation and dropped
// without comment.
package evidence

import (
	"strings"

	"github.com/google/uuid"
)

// Candidate is a segment whose text a quote may be verified against.
type Candidate struct {
	SegmentID uuid.UUID
	Text      string
	PageStart int
	PageEnd   int
}

// Span is a verified citation: a verbatim quote plus its source segment and
// page range.
type Span struct {
	SegmentID uuid.UUID `json:"segment_id"`
	Quote     string    `json:"quote"`
	PageStart int       `json:"page_start"`
	PageEnd   int       `json:"page_end"`
}

// Validate resolves each quote against the candidates in order, binding it
// to the first candidate whose text contains it verbatim. Empty quotes and
// quotes found in no candidate are dropped.
func Validate(quotes []string, candidates []Candidate) []Span {
	var spans []Span
	for _, quote := range quotes {
		if quote == "" {
			continue
		}
		for _, candidate := range candidates {
			if strings.Contains(candidate.Text, quote) {
				spans = append(spans, Span{
					SegmentID: candidate.SegmentID,
					Quote:     quote,
					PageStart: candidate.PageStart,
					PageEnd:   candidate.PageEnd,
				})
				break
			}
		}
	}
	return spans
}
