// Package extraction converts uploaded contract documents into plain text.
// PDF documents are read page by page so that downstream segments can be
// attributed to source pages; DOCX documents are flattened to paragraphs.
// PDFs whose text density falls below a configured floor are rejected as
// scanned images rather than silently producing empty reviews.
package extraction

import (
	"fmt"
	"strings"
)

// Supported document media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Page holds the extracted text of a single source page. Numbers are 1-based.
type Page struct {
	Number int
	Text   string
}

// Result is the extracted form of a document.
type Result struct {
	RawText        string
	Pages          []Page
	PageCount      int
	ParagraphCount int
	TextDensity    float64
}

// Extractor converts document bytes into extraction results subject to
// size and density limits.
type Extractor struct {
	maxSize          int64
	densityThreshold float64
}

// New creates an extractor. maxSize caps accepted document bytes;
// densityThreshold is the minimum ratio of extracted characters to document
// bytes below which a PDF is treated as scanned.
func New(maxSize int64, densityThreshold float64) *Extractor {
	return &Extractor{
		maxSize:          maxSize,
		densityThreshold: densityThreshold,
	}
}

// Extract converts a document of the given media type into text. The media
// type must be one of the supported constants; anything else fails with
// ErrUnsupportedType.
func (e *Extractor) Extract(data []byte, mediaType string) (*Result, error) {
	if e.maxSize > 0 && int64(len(data)) > e.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	switch normalizeMediaType(mediaType) {
	case MediaTypePDF:
		return e.extractPDF(data)
	case MediaTypeDOCX:
		return e.extractDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, mediaType)
	}
}

// Supported reports whether the extractor can handle the given media type.
func Supported(mediaType string) bool {
	switch normalizeMediaType(mediaType) {
	case MediaTypePDF, MediaTypeDOCX:
		return true
	}
	return false
}

func normalizeMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func countParagraphs(text string) int {
	count := 0
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}
