package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/fraatlas/fraportal/internal/e2etest"
	"github.com/fraatlas/fraportal/internal/envstruct"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/logging"
)

type config struct {
	Email       string `env:"FRAPORTAL_SMOKETEST_EMAIL"`
	Password    string `env:"FRAPORTAL_SMOKETEST_PASSWORD"`
	ClaimNumber string `env:"FRAPORTAL_SMOKETEST_CLAIM" envDefault:"MP001234567890"`
}

// TestTracking signs in, looks up a known claim and signs out again.
func TestTracking(client *e2etest.Client, cfg config) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.Login(ctx, cfg.Email, cfg.Password)
	if err != nil {
		return errors.Wrap(err, "login user")
	}
	if doc.Find("form[action='/logout']").Length() == 0 {
		return errors.New("not signed in after login", slog.String("email", cfg.Email))
	}

	trackPath := "/claims/track?claim_number=" + url.QueryEscape(cfg.ClaimNumber)
	if doc, err = client.GetDoc(ctx, trackPath); err != nil {
		return errors.Wrap(err, "track claim")
	}
	if got := doc.Find("#track-result td.claim-number").Text(); got != cfg.ClaimNumber {
		return errors.New("claim not shown",
			slog.String("claim_number", cfg.ClaimNumber), slog.String("got", got))
	}

	if _, err = client.Logout(ctx); err != nil {
		return errors.Wrap(err, "logout user")
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, nil)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		baseURL  = "https://" + hostname
		client   *e2etest.Client
		cfg      config
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", baseURL))

	if err = envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error reading config", errors.SlogError(err))
		os.Exit(1)
	}
	if client, err = e2etest.NewClient(baseURL); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestTracking(client, cfg); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing claim tracking", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
