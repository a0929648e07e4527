package reviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/evidence"
	"github.com/veridia/clauseguard/pkg/repository"
)

const segmentColumns = `id, review_id, segment_index, heading, section_number, text, content_hash, page_start, page_end`

const evaluationColumns = `id, review_id, clause_type, risk_label, short_reason, suggested_change, triggered_rule_ids, evidence_spans`

// ReplaceSegments deletes every stored segment for the review, along with
// the classifications that reference them, then inserts the given segments.
// Runs in one transaction so a rerun never observes a partial replacement.
func (r *repo) ReplaceSegments(ctx context.Context, reviewID uuid.UUID, segments []SegmentInput) ([]Segment, error) {
	q := fmt.Sprintf(`
		INSERT INTO review_segments(id, review_id, segment_index, heading, section_number, text, content_hash, page_start, page_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, segmentColumns)

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Segment, error) {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM segment_classifications WHERE review_id = $1", reviewID); err != nil {
			return nil, fmt.Errorf("clear classifications: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM review_segments WHERE review_id = $1", reviewID); err != nil {
			return nil, fmt.Errorf("clear segments: %w", err)
		}

		out := make([]Segment, 0, len(segments))
		for _, segment := range segments {
			args := []any{
				uuid.New(),
				reviewID,
				segment.SegmentIndex,
				segment.Heading,
				segment.SectionNumber,
				segment.Text,
				segment.ContentHash,
				segment.PageStart,
				segment.PageEnd,
			}
			inserted, err := repository.QueryOne(ctx, tx, q, args, scanSegment)
			if err != nil {
				return nil, err
			}
			out = append(out, inserted)
		}
		return out, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("segments replaced", "review_id", reviewID, "count", len(stored))
	return stored, nil
}

// ReplaceClassifications deletes every stored classification for the review,
// then inserts the given rows, in one transaction.
func (r *repo) ReplaceClassifications(ctx context.Context, reviewID uuid.UUID, classifications []ClassificationInput) error {
	q := `
		INSERT INTO segment_classifications(id, review_id, segment_id, clause_type, confidence, method)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM segment_classifications WHERE review_id = $1", reviewID); err != nil {
			return struct{}{}, fmt.Errorf("clear classifications: %w", err)
		}

		for _, c := range classifications {
			if _, err := tx.ExecContext(ctx, q,
				uuid.New(), reviewID, c.SegmentID, c.ClauseType, c.Confidence, c.Method); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("classifications replaced", "review_id", reviewID, "count", len(classifications))
	return nil
}

// ReplaceEvaluations deletes every stored clause evaluation for the review,
// then inserts the given rows, in one transaction.
func (r *repo) ReplaceEvaluations(ctx context.Context, reviewID uuid.UUID, evaluations []EvaluationInput) error {
	q := `
		INSERT INTO clause_evaluations(id, review_id, clause_type, risk_label, short_reason, suggested_change, triggered_rule_ids, evidence_spans)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM clause_evaluations WHERE review_id = $1", reviewID); err != nil {
			return struct{}{}, fmt.Errorf("clear evaluations: %w", err)
		}

		for _, e := range evaluations {
			ruleIDs, err := json.Marshal(emptyIfNil(e.TriggeredRuleIDs))
			if err != nil {
				return struct{}{}, err
			}
			evidenceSpans := e.EvidenceSpans
			if evidenceSpans == nil {
				evidenceSpans = []evidence.Span{}
			}
			spans, err := json.Marshal(evidenceSpans)
			if err != nil {
				return struct{}{}, err
			}

			if _, err := tx.ExecContext(ctx, q,
				uuid.New(), reviewID, e.ClauseType, e.RiskLabel, e.ShortReason,
				e.SuggestedChange, ruleIDs, spans); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("evaluations replaced", "review_id", reviewID, "count", len(evaluations))
	return nil
}

// ListSegments returns the review's segments in index order.
func (r *repo) ListSegments(ctx context.Context, reviewID uuid.UUID) ([]Segment, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM review_segments
		WHERE review_id = $1
		ORDER BY segment_index ASC`, segmentColumns)

	segments, err := repository.QueryMany(ctx, r.db, q, []any{reviewID}, scanSegment)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	return segments, nil
}

// CandidateSegments returns the segments classified as the clause type,
// best classification confidence first, ties broken by segment index.
func (r *repo) CandidateSegments(ctx context.Context, reviewID uuid.UUID, clauseType clauses.Type, limit int) ([]Segment, error) {
	q := `
		SELECT s.id, s.review_id, s.segment_index, s.heading, s.section_number, s.text, s.content_hash, s.page_start, s.page_end
		FROM review_segments s
		JOIN segment_classifications c ON c.segment_id = s.id
		WHERE c.review_id = $1 AND c.clause_type = $2
		ORDER BY c.confidence DESC, s.segment_index ASC
		LIMIT $3`

	segments, err := repository.QueryMany(ctx, r.db, q, []any{reviewID, clauseType, limit}, scanSegment)
	if err != nil {
		return nil, fmt.Errorf("query candidate segments: %w", err)
	}
	return segments, nil
}

// ListEvaluations returns the review's clause evaluations in clause-type order.
func (r *repo) ListEvaluations(ctx context.Context, reviewID uuid.UUID) ([]ClauseEvaluation, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM clause_evaluations
		WHERE review_id = $1
		ORDER BY clause_type ASC`, evaluationColumns)

	evaluations, err := repository.QueryMany(ctx, r.db, q, []any{reviewID}, scanEvaluation)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	return evaluations, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
