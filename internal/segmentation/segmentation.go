// Package segmentation splits extracted contract text into heading-delimited
// segments. Splitting is purely lexical: a small set of heading shapes is
// probed in fixed precedence, and every heading starts a new segment that
// owns its heading line. Segments carry an md5 content hash so downstream
// stages can detect unchanged text across re-runs.
package segmentation

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/veridia/clauseguard/internal/extraction"
)

// Segment is one heading-delimited span of document text. Index is the
// 0-based position of the segment within the document; Page is the 1-based
// number of the first source page containing the segment's text, or 0 when
// attribution fails.
type Segment struct {
	Index         int
	Heading       string
	SectionNumber string
	Text          string
	ContentHash   string
	Page          int
}

// Heading shapes in match precedence: numbered, sub-numbered, lettered,
// all-caps standalone. First match wins.
var (
	numberedPattern    = regexp.MustCompile(`^\s*(\d+\.)\s+([A-Z][^\n]+)`)
	subNumberedPattern = regexp.MustCompile(`^\s*(\d+\.\d+)\s+([A-Z][^\n]+)`)
	letteredPattern    = regexp.MustCompile(`^\s*\(([a-z])\)\s+([^\n]+)`)
	allCapsPattern     = regexp.MustCompile(`^\s*([A-Z][A-Z\s]{3,})$`)
)

// prefixLength is how many leading characters of a segment are used to find
// its source page.
const prefixLength = 40

// Split divides raw document text into segments. Text before the first
// heading forms a preamble segment with an empty heading. Pages, when
// provided, drive page attribution.
func Split(text string, pages []extraction.Page) []Segment {
	var segments []Segment
	var current []string
	var heading, section string

	flush := func() {
		body := strings.TrimSpace(strings.Join(current, "\n"))
		if body == "" {
			return
		}
		segments = append(segments, Segment{
			Index:         len(segments),
			Heading:       heading,
			SectionNumber: section,
			Text:          body,
			ContentHash:   hash(body),
			Page:          attributePage(body, pages),
		})
	}

	for _, line := range strings.Split(text, "\n") {
		if h, s, ok := matchHeading(line); ok {
			flush()
			heading, section = h, s
			current = current[:0]
		}
		current = append(current, line)
	}
	flush()

	return segments
}

func matchHeading(line string) (heading, section string, ok bool) {
	if strings.TrimSpace(line) == "" {
		return "", "", false
	}
	if m := numberedPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), m[1], true
	}
	if m := subNumberedPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), m[1], true
	}
	if m := letteredPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), m[1], true
	}
	if m := allCapsPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), "", true
	}
	return "", "", false
}

func hash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// attributePage returns the number of the first page whose text contains the
// segment's leading characters. Whitespace is collapsed on both sides so that
// line-wrapping differences between the page and the joined document text do
// not defeat the match.
func attributePage(text string, pages []extraction.Page) int {
	prefix := collapse(text)
	if len(prefix) > prefixLength {
		// Character-based, not byte-based, so a multi-byte rune at the
		// boundary is never split into an unmatchable partial sequence.
		if runes := []rune(prefix); len(runes) > prefixLength {
			prefix = string(runes[:prefixLength])
		}
	}
	if prefix == "" {
		return 0
	}

	for _, page := range pages {
		if strings.Contains(collapse(page.Text), prefix) {
			return page.Number
		}
	}
	return 0
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
