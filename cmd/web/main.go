package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/fraatlas/fraportal/internal/ai"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/envstruct"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/logging"
	"github.com/fraatlas/fraportal/internal/pprofserver"
	"github.com/fraatlas/fraportal/internal/repositories"
	"github.com/fraatlas/fraportal/internal/sqlite"
	"github.com/fraatlas/fraportal/internal/tracker"
	"github.com/joho/godotenv"
)

type application struct {
	logger         *slog.Logger
	db             *sqlite.Database
	sessionManager *scs.SessionManager
	claims         *claimsapi.Client
	tracker        *tracker.Tracker
	receipts       *repositories.ReceiptRepository
	insights       *ai.Client
	htmx           *htmx.HTMX
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FRAPORTAL_ADDR" envDefault:"localhost:4000"`
	// APIURL is the root of the claims REST API.
	APIURL string `env:"FRAPORTAL_API_URL" envDefault:"http://localhost:8000/api"`
	// SqliteURL is the path to the local database holding sessions and receipts. Use ":memory:" for tests.
	SqliteURL string `env:"FRAPORTAL_SQLITE_URL" envDefault:"./fraportal.sqlite3"`
	// PprofAddr enables the pprof server when set. It must be a loopback address.
	PprofAddr       string        `env:"FRAPORTAL_PPROF_ADDR" envDefault:""`
	SummaryTTL      time.Duration `env:"FRAPORTAL_SUMMARY_TTL" envDefault:"5m"`
	APIRate         float64       `env:"FRAPORTAL_API_RATE" envDefault:"20"`
	APIBurst        int           `env:"FRAPORTAL_API_BURST" envDefault:"10"`
	APITimeout      time.Duration `env:"FRAPORTAL_API_TIMEOUT" envDefault:"4s"`
	SessionLifetime time.Duration `env:"FRAPORTAL_SESSION_LIFETIME" envDefault:"12h"`
	// TrackerIdleTTL is how long the latest search result of an idle session is kept.
	TrackerIdleTTL time.Duration `env:"FRAPORTAL_TRACKER_IDLE_TTL" envDefault:"30m"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" envDefault:""`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:""`
	// OpenAITimeout bounds the report insight request. Keep it below the server write timeout.
	OpenAITimeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"6s"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err error
		cfg config
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("sqlite_url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	store := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, time.Hour)
	defer store.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = store
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Secure = true

	claimsClient := claimsapi.NewClient(claimsapi.Config{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.APITimeout,
		RequestsPerSecond: cfg.APIRate,
		Burst:             cfg.APIBurst,
		SummaryTTL:        cfg.SummaryTTL,
	}, logger)

	app := application{
		logger:         logger,
		db:             db,
		sessionManager: sessionManager,
		claims:         claimsClient,
		tracker:        tracker.New(claimsClient, logger, cfg.TrackerIdleTTL),
		receipts:       repositories.NewReceiptRepository(db, logger),
		insights: ai.NewClient(ai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
		}),
		htmx: htmx.New(),
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, nil)

	// A missing .env file is fine, the environment is then used as is.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
