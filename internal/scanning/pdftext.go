package scanning

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzReader reads the text layer of PDFs with MuPDF. Plain text and CSV
// exports are passed through unchanged.
type FitzReader struct{}

// NewFitzReader creates a FitzReader
func NewFitzReader() *FitzReader {
	return &FitzReader{}
}

// ReadText returns the text of every page, joined with newlines
func (r *FitzReader) ReadText(ctx context.Context, data []byte, contentType string) (string, error) {
	switch normalizeMimeType(contentType) {
	case "application/pdf":
		return r.readPDF(ctx, data)
	case "text/plain", "text/csv":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDocument, contentType)
	}
}

func (r *FitzReader) readPDF(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", n+1, err)
		}
		pages = append(pages, strings.TrimRight(text, "\n"))
	}
	return strings.Join(pages, "\n"), nil
}
