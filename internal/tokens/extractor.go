// Package tokens derives a color palette and typography from a page, using
// a browser-rendered style snapshot when available and the raw HTML
// otherwise.
package tokens

import (
	"context"
	"log/slog"

	"designlift/internal/model"
)

// Result is the outcome of token extraction. Err holds the render failure
// that forced a fallback, if any; it is informational only.
type Result struct {
	Palette      model.ColorPalette
	Typography   model.Typography
	BorderRadius string
	Source       model.TokenSource
	Err          error
}

// Extractor runs the rendered analysis and degrades to Static when the
// renderer is missing or fails.
type Extractor struct {
	Renderer Renderer
	Logger   *slog.Logger
}

func NewExtractor(r Renderer, logger *slog.Logger) *Extractor {
	return &Extractor{Renderer: r, Logger: logger}
}

// Extract never fails; see Result.Err and Result.Source.
func (e *Extractor) Extract(ctx context.Context, pageURL, rawHTML string) Result {
	var renderErr error
	if e.Renderer != nil {
		snap, err := e.Renderer.Snapshot(ctx, pageURL)
		if err == nil && snap != nil {
			return Analyze(snap)
		}
		renderErr = err
		if e.Logger != nil {
			e.Logger.Warn("token render failed, using static analysis", "url", pageURL, "error", err)
		}
	}

	res := Static(rawHTML, pageURL)
	res.Err = renderErr
	return res
}
