package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX walks word/document.xml and flattens each w:p element into a
// paragraph. DOCX carries no page geometry, so the result is a single
// synthetic page holding the full text.
func (e *Extractor) extractDOCX(data []byte) (*Result, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	var document *zip.File
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			document = file
			break
		}
	}
	if document == nil {
		return nil, fmt.Errorf("%w: missing word/document.xml", ErrUnsupportedType)
	}

	rc, err := document.Open()
	if err != nil {
		return nil, fmt.Errorf("open docx document: %w", err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return nil, fmt.Errorf("parse docx document: %w", err)
	}

	rawText := strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
	if rawText == "" {
		return nil, ErrEmptyDocument
	}

	return &Result{
		RawText:        rawText,
		Pages:          []Page{{Number: 1, Text: rawText}},
		PageCount:      1,
		ParagraphCount: len(paragraphs),
		TextDensity:    float64(len(rawText)) / float64(len(data)),
	}, nil
}

func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inParagraph := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			case "t":
				if !inParagraph {
					continue
				}
				var text string
				if err := decoder.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				current.WriteString(text)
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
	}

	return paragraphs, nil
}
