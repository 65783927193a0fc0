//go:build !tesseract

package scanning

import "context"

// Tesseract is unavailable in builds without the tesseract tag
type Tesseract struct{}

// NewTesseract always fails with ErrTesseractUnavailable
func NewTesseract() (*Tesseract, error) {
	return nil, ErrTesseractUnavailable
}

// RecognizeText always fails with ErrTesseractUnavailable
func (t *Tesseract) RecognizeText(ctx context.Context, data []byte, contentType string) (string, error) {
	return "", ErrTesseractUnavailable
}

// Close is a no-op
func (t *Tesseract) Close() error {
	return nil
}
