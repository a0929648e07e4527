package extraction_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/veridia/clauseguard/internal/extraction"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>1. Definitions</w:t></w:r></w:p>
    <w:p><w:r><w:t>In this agreement the following</w:t></w:r><w:r><w:t> terms apply.</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve"></w:t></w:r></w:p>
    <w:p><w:r><w:t>2. Security</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, documentXML)

	result, err := extraction.New(0, 0).Extract(data, extraction.MediaTypeDOCX)
	if err != nil {
		t.Fatal(err)
	}

	want := "1. Definitions\n\nIn this agreement the following terms apply.\n\n2. Security"
	if result.RawText != want {
		t.Errorf("raw text = %q, want %q", result.RawText, want)
	}
	if result.PageCount != 1 {
		t.Errorf("page count = %d, want 1", result.PageCount)
	}
	if len(result.Pages) != 1 || result.Pages[0].Number != 1 {
		t.Errorf("pages = %v, want one synthetic page numbered 1", result.Pages)
	}
	if result.ParagraphCount != 3 {
		t.Errorf("paragraph count = %d, want 3", result.ParagraphCount)
	}
}

func TestExtractDOCXEmptyBody(t *testing.T) {
	data := buildDOCX(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body></w:body></w:document>`)

	_, err := extraction.New(0, 0).Extract(data, extraction.MediaTypeDOCX)
	if !errors.Is(err, extraction.ErrEmptyDocument) {
		t.Errorf("Extract = %v, want ErrEmptyDocument", err)
	}
}

func TestExtractDOCXMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/styles.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("<styles/>")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = extraction.New(0, 0).Extract(buf.Bytes(), extraction.MediaTypeDOCX)
	if !errors.Is(err, extraction.ErrUnsupportedType) {
		t.Errorf("Extract = %v, want ErrUnsupportedType", err)
	}
}

// buildPDF assembles a minimal single-font PDF with one text run per page,
// tracking object offsets so the cross-reference table is exact.
func buildPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int
	addObject := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	addObject("<< /Type /Catalog /Pages 2 0 R >>")
	addObject(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pageTexts)))
	addObject("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pageTexts {
		addObject(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))

		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapePDFString(text))
		addObject(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)

	return buf.Bytes()
}

func escapePDFString(text string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(text)
}

func TestExtractPDF(t *testing.T) {
	data := buildPDF(t, []string{
		"1. Definitions",
		"2. Security obligations apply to the processor.",
	})

	result, err := extraction.New(0, 0.0005).Extract(data, extraction.MediaTypePDF)
	if err != nil {
		t.Fatal(err)
	}

	if result.PageCount != 2 {
		t.Errorf("page count = %d, want 2", result.PageCount)
	}
	if len(result.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(result.Pages))
	}
	if result.Pages[0].Number != 1 || result.Pages[0].Text != "1. Definitions" {
		t.Errorf("page 1 = %+v, want number 1 with its own text", result.Pages[0])
	}
	if result.Pages[1].Number != 2 || !strings.Contains(result.Pages[1].Text, "Security obligations") {
		t.Errorf("page 2 = %+v, want number 2 with its own text", result.Pages[1])
	}
	if !strings.Contains(result.RawText, "1. Definitions") ||
		!strings.Contains(result.RawText, "Security obligations") {
		t.Errorf("raw text = %q, missing page content", result.RawText)
	}
	if result.TextDensity <= 0 {
		t.Errorf("text density = %f, want > 0", result.TextDensity)
	}
}

func TestExtractPDFScannedRejected(t *testing.T) {
	tests := []struct {
		name      string
		pageTexts []string
		threshold float64
	}{
		{"no extractable text", []string{""}, 0.0005},
		{"density below threshold", []string{"1. Definitions"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildPDF(t, tt.pageTexts)

			_, err := extraction.New(0, tt.threshold).Extract(data, extraction.MediaTypePDF)
			if !errors.Is(err, extraction.ErrScannedDocument) {
				t.Errorf("Extract = %v, want ErrScannedDocument", err)
			}
		})
	}
}

func TestExtractTooLarge(t *testing.T) {
	data := buildDOCX(t, documentXML)

	_, err := extraction.New(int64(len(data)-1), 0).Extract(data, extraction.MediaTypeDOCX)
	if !errors.Is(err, extraction.ErrTooLarge) {
		t.Errorf("Extract = %v, want ErrTooLarge", err)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	_, err := extraction.New(0, 0).Extract(nil, extraction.MediaTypePDF)
	if !errors.Is(err, extraction.ErrEmptyDocument) {
		t.Errorf("Extract = %v, want ErrEmptyDocument", err)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := extraction.New(0, 0).Extract([]byte("plain text"), "text/plain")
	if !errors.Is(err, extraction.ErrUnsupportedType) {
		t.Errorf("Extract = %v, want ErrUnsupportedType", err)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		mediaType string
		want      bool
	}{
		{"application/pdf", true},
		{"APPLICATION/PDF", true},
		{"application/pdf; charset=binary", true},
		{"  application/pdf  ", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"text/plain", false},
		{"application/msword", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := extraction.Supported(tt.mediaType); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.mediaType, got, tt.want)
		}
	}
}

func TestExtractMediaTypeParameters(t *testing.T) {
	data := buildDOCX(t, documentXML)

	result, err := extraction.New(0, 0).
		Extract(data, extraction.MediaTypeDOCX+"; charset=binary")
	if err != nil {
		t.Fatal(err)
	}
	if result.RawText == "" {
		t.Error("parameterized media type produced no text")
	}
}
