// Command tileserver serves noise tiles over HTTP.
//
//	GET /tiles/:kind/:seed/:tx/:ty[.png|.f32]?freq=&tileable=&size=&format=
//	GET /kinds
//	GET /health
//	GET /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pthm-cable/latnoise/config"
	"github.com/pthm-cable/latnoise/field"
	"github.com/pthm-cable/latnoise/tiles"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	addr := flag.String("addr", "", "Listen address (empty = config, then $LATNOISE_ADDR, then :8090)")
	cacheDir := flag.String("cache-dir", "", "Directory for the persistent tile cache (overrides config)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *cacheDir != "" {
		cfg.Server.CacheDir = *cacheDir
	}

	if err := run(cfg, logger); err != nil {
		slog.Error("tile server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	store, err := tiles.OpenStore(cfg.Server.CacheDir, cfg.Server.MemoryCacheMB)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				slog.Error("closing tile store", "error", err)
			}
		}()
	}

	pool := field.NewPool(cfg.Grid.Workers)
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gin.SetMode(gin.ReleaseMode)
	srv := tiles.NewServer(cfg, pool, store, reg, logger)

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("tile server listening",
			"addr", httpServer.Addr,
			"workers", pool.Workers(),
			"cache_dir", cfg.Server.CacheDir,
			"memory_cache_mb", cfg.Server.MemoryCacheMB,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
