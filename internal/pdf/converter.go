// Package pdf converts rendered resume HTML into PDF bytes.
//
// The converter is a capability interface so the export path can swap the
// external wkhtmltopdf binary for an in-process headless browser, and so
// tests can substitute a fake without any converter installed.
package pdf

import (
	"context"
	"fmt"

	"resumeforge/internal/config"
)

// Page options shared by every converter. A4 with 0.75in margins matches
// the layout the resume templates are designed for.
const (
	pageWidthInches  = 8.27
	pageHeightInches = 11.69
	marginInches     = 0.75
)

// Converter turns an HTML document into PDF bytes. Implementations must
// honor ctx cancellation so a hung converter cannot block a request forever.
type Converter interface {
	Convert(ctx context.Context, html string) ([]byte, error)
}

// NewConverter builds the configured converter implementation.
func NewConverter(cfg config.ConverterConfig) (Converter, error) {
	switch cfg.Kind {
	case "wkhtmltopdf":
		return NewWkhtmltopdfConverter(cfg.BinaryPath), nil
	case "chromium":
		return NewChromiumConverter(), nil
	default:
		return nil, fmt.Errorf("unknown converter kind %q", cfg.Kind)
	}
}
