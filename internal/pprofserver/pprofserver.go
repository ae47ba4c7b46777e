// Package pprofserver serves the runtime profiles on a loopback address.
package pprofserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/fraatlas/fraportal/internal/errors"
)

// Handle registers the pprof handlers on mux.
func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

func newServer(logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	Handle(mux)
	return &http.Server{
		Handler:           mux,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		ReadHeaderTimeout: time.Second,
	}
}

// Launch serves pprof on addr until ctx is done.
//
// addr must resolve to a loopback address such as localhost:6060 or [::1]:6060 so that the profiles are not open to
// the world. Failures are logged and never stop the caller.
func Launch(ctx context.Context, addr string, logger *slog.Logger) {
	logger = logger.With(slog.String("source", "pprofserver"))
	go func() {
		if err := serve(ctx, addr, logger); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped", errors.SlogError(err))
		}
	}()
}

func serve(ctx context.Context, addr string, logger *slog.Logger) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.Wrap(err, "split host port", slog.String("pprof_addr", addr))
	}
	if !isLoopback(host) {
		return errors.New("pprof address is not loopback", slog.String("pprof_addr", addr))
	}

	var listener net.Listener
	if listener, err = net.Listen("tcp", addr); err != nil {
		return errors.Wrap(err, "TCP listen", slog.String("pprof_addr", addr))
	}
	srv := newServer(logger)
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
