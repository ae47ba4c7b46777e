package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/fraatlas/fraportal/internal/errors"
)

// startOptimizer runs optimize once per interval until ctx is done. See https://www.sqlite.org/pragma.html#pragma_optimize.
//
// Expired sessions are purged by the session store itself, so this only keeps the query planner statistics fresh.
func (db *Database) startOptimizer(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		start := time.Now()
		if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			if ctx.Err() != nil {
				return
			}
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
				errors.SlogError(errors.Wrap(err, "optimize database")))
			continue
		}
		db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database", slog.Duration("duration", time.Since(start)))
	}
}
