package jobs

import (
	"context"
	"log/slog"
	"time"

	"designlift/internal/metrics"
)

// ExtractionStore is the part of the store the retention sweep needs.
type ExtractionStore interface {
	DeleteExpiredExtractions(ctx context.Context, cutoff time.Time) (int64, []string, error)
}

// AssetCleaner removes a project's stored assets.
type AssetCleaner interface {
	CleanupProject(projectID string) error
}

// RetentionStats captures what one cleanup pass removed.
type RetentionStats struct {
	ExtractionsDeleted int64    `json:"extractionsDeleted"`
	ProjectsRemoved    []string `json:"projectsRemoved,omitempty"`
}

// CleanupExpiredData deletes extraction records older than days and the
// asset namespaces of projects left without any record, so that neither
// the database nor the asset root grows without bound.
func CleanupExpiredData(ctx context.Context, days int, st ExtractionStore, assets AssetCleaner, logger *slog.Logger) (RetentionStats, error) {
	var stats RetentionStats
	if days <= 0 || st == nil {
		return stats, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	n, orphaned, err := st.DeleteExpiredExtractions(ctx, cutoff)
	stats.ExtractionsDeleted = n
	if err != nil {
		metrics.RecordRetention(n, 0)
		return stats, err
	}

	if assets != nil {
		for _, pid := range orphaned {
			if err := assets.CleanupProject(pid); err != nil {
				if logger != nil {
					logger.Warn("retention asset cleanup failed", "project_id", pid, "error", err)
				}
				continue
			}
			stats.ProjectsRemoved = append(stats.ProjectsRemoved, pid)
		}
	}

	metrics.RecordRetention(stats.ExtractionsDeleted, int64(len(stats.ProjectsRemoved)))
	return stats, nil
}
