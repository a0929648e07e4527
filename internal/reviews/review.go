// Package reviews implements the contract-review domain. It provides the
// review entity and its lifecycle state machine, data access for reviews
// and their owned pipeline artifacts (segments, classifications, clause
// evaluations), and the HTTP surface for creating, uploading, starting,
// and reading reviews.
package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/evidence"
)

// Review is a contract review and its lifecycle state. Document fields are
// nil until a document is attached; Decision and Summary are set only on
// completion; ErrorMessage only on failure.
type Review struct {
	ID            uuid.UUID         `json:"id"`
	Status        Status            `json:"status"`
	Context       map[string]string `json:"context,omitempty"`
	DocFilename   *string           `json:"doc_filename,omitempty"`
	DocMime       *string           `json:"doc_mime,omitempty"`
	DocSizeBytes  *int64            `json:"doc_size_bytes,omitempty"`
	DocSHA256     *string           `json:"doc_sha256,omitempty"`
	DocStorageKey *string           `json:"doc_storage_key,omitempty"`
	DocPageCount  *int              `json:"doc_page_count,omitempty"`
	Decision      *string           `json:"decision,omitempty"`
	Summary       []byte            `json:"summary,omitempty"`
	ErrorMessage  *string           `json:"error_message,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Segment is one stored clause segment of a review's document.
type Segment struct {
	ID            uuid.UUID `json:"id"`
	ReviewID      uuid.UUID `json:"review_id"`
	SegmentIndex  int       `json:"segment_index"`
	Heading       *string   `json:"heading,omitempty"`
	SectionNumber *string   `json:"section_number,omitempty"`
	Text          string    `json:"text"`
	ContentHash   string    `json:"content_hash"`
	PageStart     *int      `json:"page_start,omitempty"`
	PageEnd       *int      `json:"page_end,omitempty"`
}

// Classification associates a segment with a clause type at a confidence.
type Classification struct {
	ID         uuid.UUID    `json:"id"`
	ReviewID   uuid.UUID    `json:"review_id"`
	SegmentID  uuid.UUID    `json:"segment_id"`
	ClauseType clauses.Type `json:"clause_type"`
	Confidence float64      `json:"confidence"`
	Method     string       `json:"method"`
}

// ClauseEvaluation is the stored verdict for one clause type of a review.
type ClauseEvaluation struct {
	ID               uuid.UUID         `json:"id"`
	ReviewID         uuid.UUID         `json:"review_id"`
	ClauseType       clauses.Type      `json:"clause_type"`
	RiskLabel        clauses.RiskLabel `json:"risk_label"`
	ShortReason      string            `json:"short_reason"`
	SuggestedChange  *string           `json:"suggested_change,omitempty"`
	TriggeredRuleIDs []string          `json:"triggered_rule_ids"`
	EvidenceSpans    []evidence.Span   `json:"evidence_spans"`
}

// CreateCommand carries the data for a new review.
type CreateCommand struct {
	Context map[string]string `json:"context,omitempty"`
}

// AttachDocumentCommand records an uploaded source document on a review.
type AttachDocumentCommand struct {
	Filename   string
	Mime       string
	SizeBytes  int64
	SHA256     string
	StorageKey string
	PageCount  *int
}
