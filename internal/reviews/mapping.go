package reviews

import (
	"encoding/json"
	"net/url"

	"github.com/veridia/clauseguard/internal/evidence"
	"github.com/veridia/clauseguard/pkg/query"
	"github.com/veridia/clauseguard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reviews", "r").
	Project("id", "ID").
	Project("status", "Status").
	Project("context_json", "Context").
	Project("doc_filename", "DocFilename").
	Project("doc_mime", "DocMime").
	Project("doc_size_bytes", "DocSizeBytes").
	Project("doc_sha256", "DocSHA256").
	Project("doc_storage_key", "DocStorageKey").
	Project("doc_page_count", "DocPageCount").
	Project("decision", "Decision").
	Project("summary_json", "Summary").
	Project("error_message", "ErrorMessage").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for review queries.
// Nil fields are ignored; all use exact matching.
type Filters struct {
	Status   *string `json:"status,omitempty"`
	Decision *string `json:"decision,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Decision", f.Decision)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if d := values.Get("decision"); d != "" {
		f.Decision = &d
	}

	return f
}

func scanReview(s repository.Scanner) (Review, error) {
	var r Review
	var contextJSON []byte

	err := s.Scan(
		&r.ID,
		&r.Status,
		&contextJSON,
		&r.DocFilename,
		&r.DocMime,
		&r.DocSizeBytes,
		&r.DocSHA256,
		&r.DocStorageKey,
		&r.DocPageCount,
		&r.Decision,
		&r.Summary,
		&r.ErrorMessage,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	if len(contextJSON) > 0 {
		if err := json.Unmarshal(contextJSON, &r.Context); err != nil {
			return r, err
		}
	}
	return r, nil
}

func scanSegment(s repository.Scanner) (Segment, error) {
	var seg Segment
	err := s.Scan(
		&seg.ID,
		&seg.ReviewID,
		&seg.SegmentIndex,
		&seg.Heading,
		&seg.SectionNumber,
		&seg.Text,
		&seg.ContentHash,
		&seg.PageStart,
		&seg.PageEnd,
	)
	return seg, err
}

func scanEvaluation(s repository.Scanner) (ClauseEvaluation, error) {
	var e ClauseEvaluation
	var ruleIDs, spans []byte

	err := s.Scan(
		&e.ID,
		&e.ReviewID,
		&e.ClauseType,
		&e.RiskLabel,
		&e.ShortReason,
		&e.SuggestedChange,
		&ruleIDs,
		&spans,
	)
	if err != nil {
		return e, err
	}

	e.TriggeredRuleIDs = []string{}
	if len(ruleIDs) > 0 {
		if err := json.Unmarshal(ruleIDs, &e.TriggeredRuleIDs); err != nil {
			return e, err
		}
	}

	e.EvidenceSpans = []evidence.Span{}
	if len(spans) > 0 {
		if err := json.Unmarshal(spans, &e.EvidenceSpans); err != nil {
			return e, err
		}
	}
	return e, nil
}
