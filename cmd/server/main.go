package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"jotter/internal/app"
	"jotter/internal/platform/config"
	"jotter/internal/platform/logger"
)

const (
	shutdownTimeout     = 10 * time.Second
	poolStatsInterval   = 15 * time.Second
	bucketSweepInterval = time.Minute
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing jotter",
		"addr", cfg.Addr,
		"metrics_addr", cfg.MetricsAddr,
		"storage", cfg.Storage.Backend,
		"env", cfg.Environment,
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to release resources", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		return listen(srv)
	})
	g.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.MetricsAddr)
		return listen(metricsSrv)
	})
	if rc := a.Backend.RedisClient; rc != nil {
		g.Go(func() error {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					rc.RecordPoolStats()
				}
			}
		})
	}
	if buckets := a.RateLimitBuckets; buckets != nil {
		g.Go(func() error {
			ticker := time.NewTicker(bucketSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case now := <-ticker.C:
					if n := buckets.Sweep(now); n > 0 {
						log.Debug("swept idle rate limit buckets", "count", n)
					}
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
