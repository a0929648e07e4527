package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/veridia/clauseguard/internal/evidence"
	"github.com/veridia/clauseguard/internal/reviews"
	"github.com/veridia/clauseguard/internal/segmentation"
	"github.com/veridia/clauseguard/internal/summary"
)

func segmentInputs(segments []segmentation.Segment) []reviews.SegmentInput {
	inputs := make([]reviews.SegmentInput, len(segments))
	for i, segment := range segments {
		inputs[i] = reviews.SegmentInput{
			SegmentIndex:  segment.Index,
			Heading:       optional(segment.Heading),
			SectionNumber: optional(segment.SectionNumber),
			Text:          segment.Text,
			ContentHash:   segment.ContentHash,
		}
		if segment.Page > 0 {
			page := segment.Page
			inputs[i].PageStart = &page
			inputs[i].PageEnd = &page
		}
	}
	return inputs
}

func evidenceCandidates(segments []reviews.Segment) []evidence.Candidate {
	candidates := make([]evidence.Candidate, len(segments))
	for i, segment := range segments {
		candidates[i] = evidence.Candidate{
			SegmentID: segment.ID,
			Text:      segment.Text,
			PageStart: deref(segment.PageStart),
			PageEnd:   deref(segment.PageEnd),
		}
	}
	return candidates
}

func summaryInputs(evaluations []reviews.EvaluationInput) []summary.Input {
	inputs := make([]summary.Input, len(evaluations))
	for i, evaluation := range evaluations {
		inputs[i] = summary.Input{
			ClauseType:      evaluation.ClauseType,
			RiskLabel:       evaluation.RiskLabel,
			ShortReason:     evaluation.ShortReason,
			SuggestedChange: deref(evaluation.SuggestedChange),
		}
	}
	return inputs
}

func marshalSummary(report summary.Summary) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return data, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}
	return *value
}
