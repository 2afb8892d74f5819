package jobs

import (
	"context"
	"log/slog"
	"time"

	"designlift/internal/config"
)

// Runner periodically applies the retention policy.
type Runner struct {
	cfg    config.RetentionConfig
	store  ExtractionStore
	assets AssetCleaner
	logger *slog.Logger
}

// NewRunner constructs a Runner. assets may be nil when the asset pipeline
// is disabled.
func NewRunner(cfg config.RetentionConfig, st ExtractionStore, assets AssetCleaner, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, store: st, assets: assets, logger: logger}
}

// Start runs a cleanup immediately and then on every interval until ctx is
// cancelled. Callers typically run this in its own goroutine.
func (r *Runner) Start(ctx context.Context) {
	if !r.cfg.Enabled || r.store == nil {
		return
	}
	interval := time.Duration(r.cfg.CleanupIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single cleanup pass and logs its outcome.
func (r *Runner) RunOnce(ctx context.Context) RetentionStats {
	stats, err := CleanupExpiredData(ctx, r.cfg.ExtractionDays, r.store, r.assets, r.logger)
	if r.logger == nil {
		return stats
	}
	if err != nil {
		r.logger.Error("retention cleanup failed", "error", err)
		return stats
	}
	if stats.ExtractionsDeleted > 0 || len(stats.ProjectsRemoved) > 0 {
		r.logger.Info("retention cleanup",
			"extractions_deleted", stats.ExtractionsDeleted,
			"projects_removed", len(stats.ProjectsRemoved),
		)
	}
	return stats
}
