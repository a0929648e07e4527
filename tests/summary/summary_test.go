package summary_test

import (
	"testing"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/summary"
)

func TestBuildDecision(t *testing.T) {
	tests := []struct {
		name   string
		inputs []summary.Input
		want   string
	}{
		{
			"all acceptable",
			[]summary.Input{
				{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskAcceptable},
				{ClauseType: clauses.Confidentiality, RiskLabel: clauses.RiskAcceptable},
			},
			summary.DecisionOK,
		},
		{
			"ambiguous demands review",
			[]summary.Input{
				{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskAmbiguous},
				{ClauseType: clauses.Confidentiality, RiskLabel: clauses.RiskAcceptable},
			},
			summary.DecisionReview,
		},
		{
			"non-critical unacceptable demands changes",
			[]summary.Input{
				{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskUnacceptable},
				{ClauseType: clauses.Confidentiality, RiskLabel: clauses.RiskAmbiguous},
			},
			summary.DecisionNeedsChanges,
		},
		{
			"critical unacceptable rejects",
			[]summary.Input{
				{ClauseType: clauses.SecurityMeasures, RiskLabel: clauses.RiskUnacceptable},
				{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskAcceptable},
			},
			summary.DecisionReject,
		},
		{
			"critical outranks non-critical unacceptable",
			[]summary.Input{
				{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskUnacceptable},
				{ClauseType: clauses.BreachNotice, RiskLabel: clauses.RiskUnacceptable},
			},
			summary.DecisionReject,
		},
		{
			"no evaluations",
			nil,
			summary.DecisionOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, _ := summary.Build(tt.inputs)
			if decision != tt.want {
				t.Errorf("Build decision = %s, want %s", decision, tt.want)
			}
		})
	}
}

func TestBuildCounts(t *testing.T) {
	_, s := summary.Build([]summary.Input{
		{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskAcceptable},
		{ClauseType: clauses.Confidentiality, RiskLabel: clauses.RiskAmbiguous},
		{ClauseType: clauses.Liability, RiskLabel: clauses.RiskAmbiguous},
		{ClauseType: clauses.SecurityMeasures, RiskLabel: clauses.RiskUnacceptable},
	})

	if s.Counts[clauses.RiskAcceptable] != 1 {
		t.Errorf("acceptable count = %d, want 1", s.Counts[clauses.RiskAcceptable])
	}
	if s.Counts[clauses.RiskAmbiguous] != 2 {
		t.Errorf("ambiguous count = %d, want 2", s.Counts[clauses.RiskAmbiguous])
	}
	if s.Counts[clauses.RiskUnacceptable] != 1 {
		t.Errorf("unacceptable count = %d, want 1", s.Counts[clauses.RiskUnacceptable])
	}
}

func TestBuildCountsAlwaysPresent(t *testing.T) {
	_, s := summary.Build(nil)

	for _, label := range []clauses.RiskLabel{
		clauses.RiskAcceptable, clauses.RiskAmbiguous, clauses.RiskUnacceptable,
	} {
		if count, ok := s.Counts[label]; !ok || count != 0 {
			t.Errorf("Counts[%s] = %d (present %v), want 0 present", label, count, ok)
		}
	}
}

func TestBuildCriticalRisks(t *testing.T) {
	_, s := summary.Build([]summary.Input{
		{ClauseType: clauses.SecurityMeasures, RiskLabel: clauses.RiskUnacceptable},
		{ClauseType: clauses.BreachNotice, RiskLabel: clauses.RiskAmbiguous},
		{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskUnacceptable},
	})

	if len(s.CriticalRisks) != 1 {
		t.Fatalf("critical risks = %v, want one entry", s.CriticalRisks)
	}
	if s.CriticalRisks[0] != clauses.SecurityMeasures {
		t.Errorf("critical risk = %s, want %s", s.CriticalRisks[0], clauses.SecurityMeasures)
	}
}

func TestBuildIssueOrdering(t *testing.T) {
	_, s := summary.Build([]summary.Input{
		{ClauseType: clauses.Transfers, RiskLabel: clauses.RiskAmbiguous},
		{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskUnacceptable},
		{ClauseType: clauses.Confidentiality, RiskLabel: clauses.RiskAmbiguous},
		{ClauseType: clauses.BreachNotice, RiskLabel: clauses.RiskUnacceptable},
		{ClauseType: clauses.Liability, RiskLabel: clauses.RiskAcceptable},
	})

	if len(s.Issues) != 4 {
		t.Fatalf("Build produced %d issues, want 4", len(s.Issues))
	}

	// Unacceptable issues lead, each group ordered by clause type.
	want := []clauses.Type{
		clauses.BreachNotice,
		clauses.GoverningLaw,
		clauses.Confidentiality,
		clauses.Transfers,
	}
	for i, clauseType := range want {
		if s.Issues[i].ClauseType != clauseType {
			t.Errorf("issue %d = %s, want %s", i, s.Issues[i].ClauseType, clauseType)
		}
	}
}

func TestBuildAcceptableExcludedFromIssues(t *testing.T) {
	_, s := summary.Build([]summary.Input{
		{ClauseType: clauses.GoverningLaw, RiskLabel: clauses.RiskAcceptable, ShortReason: "Fine."},
	})

	if len(s.Issues) != 0 {
		t.Errorf("acceptable evaluation surfaced as issue: %v", s.Issues)
	}
}
