// Command peopledb serves the people and organization repository over HTTP.
// Storage, pool bounds, and logging come from PEOPLEDB_* environment
// variables; see internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"peopledb/internal/adapters/httpapi"
	"peopledb/internal/config"
	"peopledb/internal/core"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli(ctx, os.Args[1:], os.Getenv, os.Stderr)
	stop()
	exitFunc(code)
}

func cli(ctx context.Context, args []string, getenv func(string) string, stderr io.Writer) int {
	fs := flag.NewFlagSet("peopledb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "", "listen address, overrides "+config.EnvServerAddr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := config.Load(getenv)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 2
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}
	logger := core.NewZerologLogger(stderr, cfg.LogLevel)
	if err := run(ctx, cfg, logger, nil); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}

// run serves until ctx is cancelled or the listener fails. ready, when set,
// receives the bound address once the server accepts connections.
func run(ctx context.Context, cfg config.Config, logger core.Logger, ready func(net.Addr)) error {
	store, err := core.OpenRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		_ = store.Close()
		return err
	}
	if err := reg.Register(collectors.NewDBStatsCollector(store.Pool().DB(), "peopledb")); err != nil {
		_ = store.Close()
		return err
	}
	recorder, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		_ = store.Close()
		return err
	}
	svc := core.NewService(store, core.WithLogger(logger), core.WithMetrics(recorder))
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logger.Warn("close repository", "error", cerr)
		}
	}()

	handler := httpapi.NewHandler(svc,
		httpapi.WithLogger(logger),
		httpapi.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	ln, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		return err
	}
	server := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("listening", "addr", ln.Addr().String(), "storage", cfg.Storage.Driver, "statements", store.Name())
	if ready != nil {
		ready(ln.Addr())
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(ln) }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
