// Package pipeline orchestrates the document-to-verdict flow for one review:
// download, extract, segment, classify, evaluate, verify evidence, summarize.
// Every persistence step replaces the review's prior artifacts, so rerunning
// the pipeline for the same review is idempotent. Any stage failure drives
// the review to FAILED with the failure message recorded; the orchestrator
// itself never panics the job.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/veridia/clauseguard/internal/classification"
	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/evaluation"
	"github.com/veridia/clauseguard/internal/evidence"
	"github.com/veridia/clauseguard/internal/extraction"
	"github.com/veridia/clauseguard/internal/playbook"
	"github.com/veridia/clauseguard/internal/reviews"
	"github.com/veridia/clauseguard/internal/segmentation"
	"github.com/veridia/clauseguard/internal/summary"
	"github.com/veridia/clauseguard/pkg/storage"
)

// candidateLimit caps how many classified segments are shown to the
// evaluator per clause type.
const candidateLimit = 5

// classifyConcurrency bounds parallel segment classification.
const classifyConcurrency = 4

// Processor runs the review pipeline.
type Processor struct {
	reviews    reviews.System
	storage    storage.System
	extractor  *extraction.Extractor
	classifier *classification.Classifier
	evaluator  *evaluation.Evaluator
	playbook   *playbook.Playbook
	logger     *slog.Logger
}

// Options wires a processor's collaborators.
type Options struct {
	Reviews    reviews.System
	Storage    storage.System
	Extractor  *extraction.Extractor
	Classifier *classification.Classifier
	Evaluator  *evaluation.Evaluator
	Playbook   *playbook.Playbook
	Logger     *slog.Logger
}

// New creates a pipeline processor.
func New(opts Options) *Processor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Processor{
		reviews:    opts.Reviews,
		storage:    opts.Storage,
		extractor:  opts.Extractor,
		classifier: opts.Classifier,
		evaluator:  opts.Evaluator,
		playbook:   opts.Playbook,
		logger:     opts.Logger.With("system", "pipeline"),
	}
}

// Process runs the full pipeline for a review. On failure the review is
// moved to FAILED with the failure message recorded, and the error is
// returned for logging; the caller must not treat it as retryable.
func (p *Processor) Process(ctx context.Context, reviewID uuid.UUID) error {
	if err := p.run(ctx, reviewID); err != nil {
		p.fail(ctx, reviewID, err)
		return err
	}
	return nil
}

func (p *Processor) run(ctx context.Context, reviewID uuid.UUID) error {
	review, err := p.reviews.Find(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.DocStorageKey == nil || review.DocMime == nil {
		return reviews.ErrNoDocument
	}

	data, err := p.storage.DownloadBytes(ctx, *review.DocStorageKey)
	if err != nil {
		return fmt.Errorf("download document: %w", err)
	}

	extracted, err := p.extractor.Extract(data, *review.DocMime)
	if err != nil {
		return err
	}

	segments := segmentation.Split(extracted.RawText, extracted.Pages)
	if len(segments) == 0 {
		return fmt.Errorf("no segments produced from document")
	}

	stored, err := p.reviews.ReplaceSegments(ctx, reviewID, segmentInputs(segments))
	if err != nil {
		return err
	}
	p.logger.Info("segments stored", "review_id", reviewID, "count", len(stored))

	classifications, err := p.classifySegments(ctx, stored)
	if err != nil {
		return err
	}
	if err := p.reviews.ReplaceClassifications(ctx, reviewID, classifications); err != nil {
		return err
	}

	evaluations, err := p.evaluateClauses(ctx, review)
	if err != nil {
		return err
	}
	if err := p.reviews.ReplaceEvaluations(ctx, reviewID, evaluations); err != nil {
		return err
	}

	decision, report := summary.Build(summaryInputs(evaluations))
	reportJSON, err := marshalSummary(report)
	if err != nil {
		return err
	}

	if err := p.reviews.SetCompleted(ctx, reviewID, decision, reportJSON); err != nil {
		return err
	}

	p.logger.Info("review processed", "review_id", reviewID, "decision", decision)
	return nil
}

// classifySegments classifies stored segments concurrently, preserving
// segment order in the flattened result.
func (p *Processor) classifySegments(ctx context.Context, segments []reviews.Segment) ([]reviews.ClassificationInput, error) {
	perSegment := make([][]classification.Result, len(segments))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(classifyConcurrency)

	for i, segment := range segments {
		group.Go(func() error {
			perSegment[i] = p.classifier.Classify(groupCtx, segment.Text)
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var inputs []reviews.ClassificationInput
	for i, results := range perSegment {
		for _, result := range results {
			inputs = append(inputs, reviews.ClassificationInput{
				SegmentID:  segments[i].ID,
				ClauseType: result.ClauseType,
				Confidence: result.Confidence,
				Method:     result.Method,
			})
		}
	}
	return inputs, nil
}

// evaluateClauses produces exactly one evaluation per clause type in the
// taxonomy, verifying cited quotes against the candidates shown to the
// evaluator.
func (p *Processor) evaluateClauses(ctx context.Context, review *reviews.Review) ([]reviews.EvaluationInput, error) {
	inputs := make([]reviews.EvaluationInput, 0, clauses.Count())

	for _, clauseType := range clauses.All() {
		candidates, err := p.reviews.CandidateSegments(ctx, review.ID, clauseType, candidateLimit)
		if err != nil {
			return nil, err
		}

		var verdict evaluation.Verdict
		if len(candidates) == 0 {
			verdict = evaluation.EvaluateMissing(clauseType)
		} else {
			texts := make([]string, len(candidates))
			for i, candidate := range candidates {
				texts[i] = candidate.Text
			}
			verdict = p.evaluator.Evaluate(ctx, clauseType, texts, review.Context, p.playbook.RulesFor(clauseType))
		}

		spans := evidence.Validate(verdict.CandidateQuotes, evidenceCandidates(candidates))

		inputs = append(inputs, reviews.EvaluationInput{
			ClauseType:       clauseType,
			RiskLabel:        verdict.RiskLabel,
			ShortReason:      verdict.ShortReason,
			SuggestedChange:  optional(verdict.SuggestedChange),
			TriggeredRuleIDs: verdict.TriggeredRuleIDs,
			EvidenceSpans:    spans,
		})
	}
	return inputs, nil
}

func (p *Processor) fail(ctx context.Context, reviewID uuid.UUID, cause error) {
	if err := p.reviews.SetFailed(ctx, reviewID, cause.Error()); err != nil {
		p.logger.Error("failed to record pipeline failure",
			"review_id", reviewID,
			"cause", cause,
			"error", err)
	}
}
