package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fraatlas/fraportal/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, slog.LevelDebug, nil).With(slog.String("component", "tracker"))

	ctx := logging.WithAttrs(context.Background(), slog.String("request_id", "abc"))
	first := logging.WithAttrs(ctx, slog.String("claim_number", "MP001"))
	second := logging.WithAttrs(ctx, slog.String("claim_number", "BOGUS"))

	logger.LogAttrs(first, slog.LevelInfo, "first")
	require.Contains(t, buf.String(), "component=tracker")
	require.Contains(t, buf.String(), "request_id=abc")
	require.Contains(t, buf.String(), "claim_number=MP001")

	buf.Reset()
	logger.LogAttrs(second, slog.LevelInfo, "second")
	require.Contains(t, buf.String(), "claim_number=BOGUS")
	require.NotContains(t, buf.String(), "MP001")
}
