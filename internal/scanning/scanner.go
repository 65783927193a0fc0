// Package scanning recovers raw text from uploaded documents: OCR for receipt
// images and text extraction for statements.
package scanning

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDocument is returned for content types a reader cannot handle
	ErrUnsupportedDocument = errors.New("unsupported document type")
	// ErrTesseractUnavailable is returned when the binary was built without the tesseract tag
	ErrTesseractUnavailable = errors.New("tesseract support not compiled in (build with -tags tesseract)")
)

// Recognizer turns an image of a document into its text
type Recognizer interface {
	// RecognizeText transcribes the document, preserving line breaks
	RecognizeText(ctx context.Context, data []byte, contentType string) (string, error)
	// Close releases any resources held by the recognizer
	Close() error
}

// DocumentReader extracts embedded text from a document
type DocumentReader interface {
	ReadText(ctx context.Context, data []byte, contentType string) (string, error)
}

// Recognizer backends
const (
	BackendGemini    = "gemini"
	BackendOllama    = "ollama"
	BackendTesseract = "tesseract"
)

// Config selects and configures a Recognizer backend
type Config struct {
	Backend     string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
}

// NewRecognizer builds the backend named by cfg.Backend
func NewRecognizer(ctx context.Context, cfg Config) (Recognizer, error) {
	var (
		r   Recognizer
		err error
	)
	switch cfg.Backend {
	case BackendGemini:
		r, err = NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel)
	case BackendOllama:
		r, err = NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	case BackendTesseract:
		r, err = NewTesseract()
	default:
		return nil, fmt.Errorf("unknown recognizer %q (want gemini, ollama or tesseract)", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s recognizer: %w", cfg.Backend, err)
	}
	return r, nil
}
