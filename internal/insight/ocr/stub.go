//go:build !tesseract

package ocr

import (
	"context"
	"fmt"

	"github.com/Veraticus/parayon/internal/insight"
	"github.com/Veraticus/parayon/internal/model"
)

// Available reports whether the binary was built with tesseract support.
const Available = false

// Extractor is a placeholder for builds without tesseract.
type Extractor struct{}

// New returns an Extractor that always reports the service as unavailable.
func New(_ ...string) *Extractor {
	return &Extractor{}
}

// Extract implements insight.ReceiptExtractor.
func (e *Extractor) Extract(_ context.Context, _ []byte, _ []model.CategoryDef) (*insight.Receipt, error) {
	return nil, fmt.Errorf("%w: built without tesseract support", insight.ErrServiceUnavailable)
}
