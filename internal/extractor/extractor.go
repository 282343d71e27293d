// Package extractor obtains a text representation of a PDF, falling back to
// image OCR when the document carries no text layer.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor acquires text from PDF byte streams. The OCR path is only
// exercised when the document has no embedded text.
type Extractor struct {
	language string
	dpi      int

	// Seams for tests; default to the real implementations.
	textLayer func(data []byte) string
	ocr       func(ctx context.Context, data []byte) (string, error)
}

// New creates an extractor that OCRs scanned pages with the given Tesseract
// language model and rendering resolution.
func New(language string, dpi int) *Extractor {
	e := &Extractor{language: language, dpi: dpi}
	e.textLayer = extractTextLayer
	e.ocr = e.runOCR
	return e
}

// Extract returns the text content of the PDF read from r. It first tries
// the embedded text layer of every page; when the document carries none it
// renders each page to an image and runs OCR over the images.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read pdf stream: %w", err)
	}

	text := e.textLayer(data)
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	ocrText, err := e.ocr(ctx, data)
	if err != nil {
		return "", fmt.Errorf("ocr fallback: %w", err)
	}
	// An empty OCR result is passed through; the parser decides whether the
	// document is usable.
	return ocrText, nil
}

// extractTextLayer extracts the embedded text of each page, joined with
// newlines. Pages without a text layer contribute an empty string. Open or
// decode failures (including panics inside the pdf library on malformed
// documents) are treated as "no text layer" so the OCR path can take over.
func extractTextLayer(data []byte) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}

		content, err := page.GetPlainText(fonts)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n")
}
