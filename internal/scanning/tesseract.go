//go:build tesseract

package scanning

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// tesseractWhitelist limits recognition to characters found on receipts and statements
const tesseractWhitelist = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ$€£¥.,/-+(): "

// Tesseract implements the Recognizer interface with a local Tesseract install
type Tesseract struct {
	mu     sync.Mutex // a gosseract client is not safe for concurrent use
	client *gosseract.Client
}

// NewTesseract creates a Tesseract Recognizer configured for English text
// laid out as a single block
func NewTesseract() (*Tesseract, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting tesseract language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting tesseract page segmentation: %w", err)
	}
	if err := client.SetWhitelist(tesseractWhitelist); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting tesseract whitelist: %w", err)
	}
	return &Tesseract{client: client}, nil
}

// RecognizeText runs OCR over the preprocessed image
func (t *Tesseract) RecognizeText(ctx context.Context, data []byte, contentType string) (string, error) {
	pngData, err := prepareImageData(data, contentType)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(pngData); err != nil {
		return "", fmt.Errorf("loading image into tesseract: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w", err)
	}
	return text, nil
}

// Close releases the Tesseract client
func (t *Tesseract) Close() error {
	return t.client.Close()
}
