package reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/evidence"
	"github.com/veridia/clauseguard/pkg/pagination"
)

// SegmentInput is the data for one segment in a full replacement.
type SegmentInput struct {
	SegmentIndex  int
	Heading       *string
	SectionNumber *string
	Text          string
	ContentHash   string
	PageStart     *int
	PageEnd       *int
}

// ClassificationInput is the data for one classification in a full replacement.
type ClassificationInput struct {
	SegmentID  uuid.UUID
	ClauseType clauses.Type
	Confidence float64
	Method     string
}

// EvaluationInput is the data for one clause evaluation in a full replacement.
type EvaluationInput struct {
	ClauseType       clauses.Type
	RiskLabel        clauses.RiskLabel
	ShortReason      string
	SuggestedChange  *string
	TriggeredRuleIDs []string
	EvidenceSpans    []evidence.Span
}

// Trigger enqueues pipeline processing for a review and returns a job handle.
type Trigger func(ctx context.Context, reviewID uuid.UUID) (string, error)

// System defines the public contract for review domain operations. Replace
// operations delete all prior rows scoped to the review before inserting,
// inside one transaction, so reprocessing never duplicates artifacts.
type System interface {
	Handler(trigger Trigger, playbookVersion string, maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Review], error)

	Find(ctx context.Context, id uuid.UUID) (*Review, error)
	Create(ctx context.Context, cmd CreateCommand) (*Review, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AttachDocument(ctx context.Context, id uuid.UUID, cmd AttachDocumentCommand) (*Review, error)
	Start(ctx context.Context, id uuid.UUID) (*Review, error)
	SetCompleted(ctx context.Context, id uuid.UUID, decision string, summary []byte) error
	SetFailed(ctx context.Context, id uuid.UUID, message string) error

	ReplaceSegments(ctx context.Context, reviewID uuid.UUID, segments []SegmentInput) ([]Segment, error)
	ReplaceClassifications(ctx context.Context, reviewID uuid.UUID, classifications []ClassificationInput) error
	ReplaceEvaluations(ctx context.Context, reviewID uuid.UUID, evaluations []EvaluationInput) error

	ListSegments(ctx context.Context, reviewID uuid.UUID) ([]Segment, error)
	CandidateSegments(ctx context.Context, reviewID uuid.UUID, clauseType clauses.Type, limit int) ([]Segment, error)
	ListEvaluations(ctx context.Context, reviewID uuid.UUID) ([]ClauseEvaluation, error)
}
