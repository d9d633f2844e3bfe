package core

// scheduler.go runs background maintenance for pass history.
//
// The pruner deletes history rows older than the retention window. It runs
// once on start and then every Interval until ctx is cancelled. A failed run
// is logged and retried on the next tick; it never stops the server.

import (
	"context"
	"log/slog"
	"time"
)

// PruneConfig configures the history pruner. Zero values take the defaults.
type PruneConfig struct {
	Retention time.Duration // Age after which records are deleted (default: 30 days)
	Interval  time.Duration // How often to run (default: 1h)
}

func (c PruneConfig) withDefaults() PruneConfig {
	if c.Retention <= 0 {
		c.Retention = 30 * 24 * time.Hour
	}
	if c.Interval <= 0 {
		c.Interval = time.Hour
	}
	return c
}

// StartHistoryPruner blocks, pruning store on a ticker, until ctx is done.
func StartHistoryPruner(ctx context.Context, store HistoryStore, cfg PruneConfig) {
	cfg = cfg.withDefaults()
	slog.Info("history pruner started",
		"retention", cfg.Retention.String(),
		"interval", cfg.Interval.String(),
	)

	runPruneJob(ctx, store, cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history pruner stopped")
			return
		case <-ticker.C:
			runPruneJob(ctx, store, cfg.Retention)
		}
	}
}

// runPruneJob performs one prune cycle.
func runPruneJob(ctx context.Context, store HistoryStore, retention time.Duration) {
	start := time.Now()
	pruned, err := store.Prune(ctx, retention)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return
	}
	slog.Info("pruned pass history",
		"entries_pruned", pruned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
