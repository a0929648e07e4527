package evidence_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/veridia/clauseguard/internal/evidence"
)

func TestValidateKeepsVerbatimQuotes(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	candidates := []evidence.Candidate{
		{SegmentID: first, Text: "The agreement covers general obligations.", PageStart: 1, PageEnd: 1},
		{SegmentID: second, Text: "The processor meets all encryption requirements at rest.", PageStart: 2, PageEnd: 3},
	}

	spans := evidence.Validate([]string{"encryption requirements", "missing quote"}, candidates)

	if len(spans) != 1 {
		t.Fatalf("Validate produced %d spans, want 1", len(spans))
	}
	if spans[0].SegmentID != second {
		t.Errorf("span segment = %s, want %s", spans[0].SegmentID, second)
	}
	if spans[0].Quote != "encryption requirements" {
		t.Errorf("span quote = %q", spans[0].Quote)
	}
	if spans[0].PageStart != 2 || spans[0].PageEnd != 3 {
		t.Errorf("span pages = %d-%d, want 2-3", spans[0].PageStart, spans[0].PageEnd)
	}
}

func TestValidateFirstContainingCandidateWins(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	candidates := []evidence.Candidate{
		{SegmentID: first, Text: "shared phrase appears here"},
		{SegmentID: second, Text: "shared phrase appears here too"},
	}

	spans := evidence.Validate([]string{"shared phrase"}, candidates)

	if len(spans) != 1 {
		t.Fatalf("Validate produced %d spans, want 1", len(spans))
	}
	if spans[0].SegmentID != first {
		t.Errorf("span bound to %s, want first candidate %s", spans[0].SegmentID, first)
	}
}

func TestValidateDropsEmptyQuotes(t *testing.T) {
	candidates := []evidence.Candidate{{SegmentID: uuid.New(), Text: "anything"}}

	if spans := evidence.Validate([]string{""}, candidates); len(spans) != 0 {
		t.Errorf("empty quote produced %d spans, want 0", len(spans))
	}
}

func TestValidateNoCandidates(t *testing.T) {
	if spans := evidence.Validate([]string{"quote"}, nil); len(spans) != 0 {
		t.Errorf("Validate with no candidates produced %d spans, want 0", len(spans))
	}
}

func TestValidatePreservesQuoteOrder(t *testing.T) {
	id := uuid.New()
	candidates := []evidence.Candidate{
		{SegmentID: id, Text: "alpha beta gamma"},
	}

	spans := evidence.Validate([]string{"gamma", "alpha"}, candidates)

	if len(spans) != 2 {
		t.Fatalf("Validate produced %d spans, want 2", len(spans))
	}
	if spans[0].Quote != "gamma" || spans[1].Quote != "alpha" {
		t.Errorf("spans out of quote order: %q, %q", spans[0].Quote, spans[1].Quote)
	}
}
