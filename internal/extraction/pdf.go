package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func (e *Extractor) extractPDF(data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pageCount := reader.NumPage()
	pages := make([]Page, 0, pageCount)
	var raw strings.Builder
	extracted := 0

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages with broken content streams degrade to empty text
			// rather than failing the whole document.
			text = ""
		}

		text = strings.TrimSpace(text)
		pages = append(pages, Page{Number: i, Text: text})
		extracted += len(text)

		if text != "" {
			raw.WriteString(text)
			raw.WriteString("\n\n")
		}
	}

	density := float64(extracted) / float64(len(data))
	if density < e.densityThreshold {
		return nil, fmt.Errorf("%w: text density %.6f", ErrScannedDocument, density)
	}

	rawText := strings.TrimSpace(raw.String())
	return &Result{
		RawText:        rawText,
		Pages:          pages,
		PageCount:      pageCount,
		ParagraphCount: countParagraphs(rawText),
		TextDensity:    density,
	}, nil
}
