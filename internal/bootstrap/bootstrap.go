// Package bootstrap builds the extraction pipeline components from
// configuration so the API server and the CLI wire them the same way.
package bootstrap

import (
	"log/slog"
	"strings"
	"time"

	"designlift/internal/assets"
	"designlift/internal/classify"
	"designlift/internal/config"
	"designlift/internal/fetcher"
	"designlift/internal/render"
	"designlift/internal/services"
	"designlift/internal/tokens"
)

// Components are the long-lived collaborators of ExtractionService.
// Renderer and Assets are nil when disabled.
type Components struct {
	Fetcher  fetcher.Fetcher
	Renderer tokens.Renderer
	Tokens   *tokens.Extractor
	Assets   *assets.Pipeline
	Language *classify.LanguageDetector

	cfg    *config.Config
	logger *slog.Logger
}

func ms(v int) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v) * time.Millisecond
}

// NewComponents constructs the fetcher, the token extractor with an
// optional rod renderer, the asset pipeline and the language detector.
func NewComponents(cfg *config.Config, logger *slog.Logger) *Components {
	if cfg == nil {
		cfg = &config.Config{}
	}

	var robots *fetcher.Robots
	if cfg.Robots.Respect {
		robots = fetcher.NewRobots(ms(cfg.Robots.TimeoutMs))
	}

	comp := &Components{cfg: cfg, logger: logger}

	switch strings.ToLower(cfg.Fetcher.Engine) {
	case "browser", "rod":
		comp.Fetcher = fetcher.NewBrowserFetcher(cfg.Rod.ControlURL, ms(cfg.Fetcher.TimeoutMs), robots)
	default:
		comp.Fetcher = fetcher.NewHTTPFetcher(ms(cfg.Fetcher.TimeoutMs), robots)
	}

	if cfg.Tokens.Render && cfg.Rod.Enabled {
		comp.Renderer = render.NewRodRenderer(cfg.Rod.ControlURL, ms(cfg.Tokens.TimeoutMs), cfg.Fetcher.UserAgent)
	}
	comp.Tokens = tokens.NewExtractor(comp.Renderer, logger)

	if cfg.Assets.Enabled {
		comp.Assets = assets.New(assets.Options{
			Root:         cfg.Assets.Root,
			PublicPrefix: cfg.Assets.PublicPrefix,
			UserAgent:    cfg.Fetcher.UserAgent,
			Timeout:      ms(cfg.Assets.TimeoutMs),
			MaxBytes:     cfg.Assets.MaxBytes,
			BatchSize:    cfg.Assets.BatchSize,
			Logger:       logger,
		})
	}

	comp.Language = classify.NewLanguageDetector()
	return comp
}

// ExtractionDeps assembles the service dependencies. rec may be nil when no
// store is configured.
func (c *Components) ExtractionDeps(rec services.Recorder) services.ExtractionDeps {
	deps := services.ExtractionDeps{
		Fetcher:   c.Fetcher,
		Tokens:    c.Tokens,
		Language:  c.Language,
		Recorder:  rec,
		Logger:    c.logger,
		UserAgent: c.cfg.Fetcher.UserAgent,
		TimeoutMs: c.cfg.Fetcher.TimeoutMs,
		Languages: c.cfg.Fetcher.Languages,
	}
	// A nil *Pipeline must not become a non-nil interface.
	if c.Assets != nil {
		deps.Assets = c.Assets
	}
	return deps
}

// NewExtractionService is a shortcut for the common wiring.
func (c *Components) NewExtractionService(rec services.Recorder) services.ExtractionService {
	return services.NewExtractionService(c.ExtractionDeps(rec))
}
