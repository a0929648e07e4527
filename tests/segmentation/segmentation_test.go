package segmentation_test

import (
	"testing"

	"github.com/veridia/clauseguard/internal/extraction"
	"github.com/veridia/clauseguard/internal/segmentation"
)

const contractText = `1. Definitions
In this agreement the following terms apply.

2. Security
2.1 Encryption Standards
All personal data is encrypted at rest.

(a) Access Controls
Access is limited to authorized personnel.

CONFIDENTIALITY
Each party keeps the other party's information confidential.`

func TestSplitHeadings(t *testing.T) {
	segments := segmentation.Split(contractText, nil)

	tests := []struct {
		heading string
		section string
	}{
		{"Definitions", "1."},
		{"Security", "2."},
		{"Encryption Standards", "2.1"},
		{"Access Controls", "a"},
		{"CONFIDENTIALITY", ""},
	}

	if len(segments) != len(tests) {
		t.Fatalf("Split produced %d segments, want %d", len(segments), len(tests))
	}

	for i, tt := range tests {
		if segments[i].Heading != tt.heading {
			t.Errorf("segment %d heading = %q, want %q", i, segments[i].Heading, tt.heading)
		}
		if segments[i].SectionNumber != tt.section {
			t.Errorf("segment %d section = %q, want %q", i, segments[i].SectionNumber, tt.section)
		}
		if segments[i].Index != i {
			t.Errorf("segment %d index = %d, want %d", i, segments[i].Index, i)
		}
	}
}

func TestSplitHeadingLineBelongsToSegment(t *testing.T) {
	segments := segmentation.Split("1. Definitions\nBody text.", nil)

	if len(segments) != 1 {
		t.Fatalf("Split produced %d segments, want 1", len(segments))
	}
	if segments[0].Text != "1. Definitions\nBody text." {
		t.Errorf("segment text = %q, heading line missing", segments[0].Text)
	}
}

func TestSplitPreamble(t *testing.T) {
	segments := segmentation.Split("This precedes any heading.\n\n1. Definitions\nBody.", nil)

	if len(segments) != 2 {
		t.Fatalf("Split produced %d segments, want 2", len(segments))
	}
	if segments[0].Heading != "" {
		t.Errorf("preamble heading = %q, want empty", segments[0].Heading)
	}
	if segments[1].Heading != "Definitions" {
		t.Errorf("second heading = %q, want Definitions", segments[1].Heading)
	}
}

func TestSplitDeterministic(t *testing.T) {
	first := segmentation.Split(contractText, nil)
	second := segmentation.Split(contractText, nil)

	if len(first) != len(second) {
		t.Fatalf("runs produced %d and %d segments", len(first), len(second))
	}
	for i := range first {
		if first[i].ContentHash != second[i].ContentHash {
			t.Errorf("segment %d hash differs across runs: %s vs %s",
				i, first[i].ContentHash, second[i].ContentHash)
		}
		if first[i].ContentHash == "" {
			t.Errorf("segment %d has empty content hash", i)
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	if segments := segmentation.Split("", nil); len(segments) != 0 {
		t.Errorf("Split(\"\") produced %d segments, want 0", len(segments))
	}
	if segments := segmentation.Split("\n\n   \n", nil); len(segments) != 0 {
		t.Errorf("whitespace input produced %d segments, want 0", len(segments))
	}
}

func TestSplitPageAttribution(t *testing.T) {
	pages := []extraction.Page{
		{Number: 1, Text: "1. Definitions\nIn this agreement the following terms apply."},
		{Number: 2, Text: "2. Security\nAll personal data is encrypted at rest."},
	}

	text := "1. Definitions\nIn this agreement the following terms apply.\n\n2. Security\nAll personal data is encrypted at rest."
	segments := segmentation.Split(text, pages)

	if len(segments) != 2 {
		t.Fatalf("Split produced %d segments, want 2", len(segments))
	}
	if segments[0].Page != 1 {
		t.Errorf("first segment page = %d, want 1", segments[0].Page)
	}
	if segments[1].Page != 2 {
		t.Errorf("second segment page = %d, want 2", segments[1].Page)
	}
}

func TestSplitPageAttributionMultibyteText(t *testing.T) {
	body := "1. Verschlüsselung\nSämtliche personenbezogenen Daten müssen während der Übertragung und im ruhenden Zustand verschlüsselt werden."
	pages := []extraction.Page{
		{Number: 1, Text: "unrelated Präambel text"},
		{Number: 2, Text: body},
	}

	segments := segmentation.Split(body, pages)
	if len(segments) != 1 {
		t.Fatalf("Split produced %d segments, want 1", len(segments))
	}
	if segments[0].Page != 2 {
		t.Errorf("segment page = %d, want 2", segments[0].Page)
	}
}

func TestSplitPageAttributionMiss(t *testing.T) {
	pages := []extraction.Page{{Number: 1, Text: "unrelated page text"}}

	segments := segmentation.Split("1. Definitions\nBody.", pages)
	if len(segments) != 1 {
		t.Fatalf("Split produced %d segments, want 1", len(segments))
	}
	if segments[0].Page != 0 {
		t.Errorf("unattributable segment page = %d, want 0", segments[0].Page)
	}
}
