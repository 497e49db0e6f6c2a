//go:build tesseract

// Package ocr reads receipts with a local tesseract install. The cgo binding
// is only compiled with the tesseract build tag.
package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/parayon/internal/insight"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/otiai10/gosseract/v2"
)

// Available reports whether the binary was built with tesseract support.
const Available = true

// Extractor runs tesseract over a receipt photo and parses the text.
type Extractor struct {
	languages []string
}

// New creates an Extractor. Languages default to Turkish and English.
func New(languages ...string) *Extractor {
	if len(languages) == 0 {
		languages = []string{"tur", "eng"}
	}
	return &Extractor{languages: languages}
}

// Extract implements insight.ReceiptExtractor.
func (e *Extractor) Extract(ctx context.Context, image []byte, categories []model.CategoryDef) (*insight.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared, err := insight.PrepareForOCR(image)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("%w: %w", insight.ErrServiceUnavailable, err)
	}
	if err := client.SetImageFromBytes(prepared); err != nil {
		return nil, fmt.Errorf("%w: %w", insight.ErrServiceUnavailable, err)
	}
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", insight.ErrServiceUnavailable, err)
	}

	return insight.ParseReceiptText(text, categories, time.Local)
}
