package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/sqlite"
	"github.com/fraatlas/fraportal/internal/testhelpers"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("FRAPORTAL_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "FRAPORTAL_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// Both tables must be queryable after migration. Empty tables are fine for a fresh deployment.
	for _, table := range []string{"claim_receipts", "sessions"} {
		var count int
		if err = db.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM `+table); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "error counting rows",
				slog.String("table", table), errors.SlogError(err))
			os.Exit(1)
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "row count", slog.String("table", table), slog.Int("count", count))
	}

	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
