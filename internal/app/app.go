// Package app assembles the jotter HTTP service from configuration. The
// server binary and the end-to-end suite both build through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	credentialHandler "jotter/internal/credential/handler"
	credentialModels "jotter/internal/credential/models"
	"jotter/internal/credential/notify"
	credentialService "jotter/internal/credential/service"
	"jotter/internal/jwttoken"
	noteHandler "jotter/internal/note/handler"
	noteModels "jotter/internal/note/models"
	"jotter/internal/note/render"
	noteService "jotter/internal/note/service"
	"jotter/internal/platform/config"
	"jotter/internal/platform/health"
	"jotter/internal/platform/kafka/producer"
	"jotter/internal/platform/metrics"
	"jotter/internal/platform/tracer"
	ratelimit "jotter/internal/ratelimit/middleware"
	"jotter/internal/ratelimit/store/bucket"
	"jotter/internal/repository"
	"jotter/internal/seeder"
	"jotter/internal/storage/backend"
	httptransport "jotter/internal/transport/http"
	"jotter/pkg/platform/middleware/metadata"
	"jotter/pkg/platform/middleware/request"
)

type App struct {
	Router  http.Handler
	Backend *backend.Backend
	// RateLimitBuckets is set when auth rate limits are kept in process and
	// need periodic sweeping.
	RateLimitBuckets *bucket.InMemoryBucketStore

	closers []func() error
}

type options struct {
	registerer prometheus.Registerer
	notifier   credentialService.Notifier
	tracer     tracer.Tracer
}

type Option func(*options)

// WithRegisterer sends all metrics to reg instead of the default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithNotifier overrides the notifier chosen from configuration.
func WithNotifier(n credentialService.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

func New(ctx context.Context, cfg config.Server, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{registerer: prometheus.DefaultRegisterer, tracer: tracer.NewOTel()}
	for _, opt := range opts {
		opt(&o)
	}
	a := &App{}

	store, err := backend.Open(ctx, cfg, o.registerer, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.Backend = store
	a.closers = append(a.closers, store.Close)

	m := metrics.New(o.registerer)
	repoOpts := []repository.Option{repository.WithTracer(o.tracer), repository.WithObserver(m)}
	credentials := repository.New[credentialModels.Credential](credentialModels.EntityName, store.Adapter, repoOpts...)
	notes := repository.New[noteModels.Note](noteModels.EntityName, store.Adapter, repoOpts...)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("storage", store.Health)

	notifier := o.notifier
	if notifier == nil {
		notifier, err = a.notifierFromConfig(cfg, logger, healthHandler)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	if cfg.Seed {
		if err := seeder.New(credentials, notes, logger).SeedAll(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	trusted, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, jwttoken.Issuer, cfg.TokenTTL)
	credentialSvc := credentialService.New(credentials, jwtService,
		credentialService.WithLogger(logger),
		credentialService.WithMetrics(m),
		credentialService.WithNotifier(notifier),
		credentialService.WithResetTTL(cfg.ResetTTL),
		credentialService.WithTracer(o.tracer),
	)
	noteSvc := noteService.New(notes, render.NewMarkdown(),
		noteService.WithLogger(logger),
		noteService.WithMetrics(m),
	)

	a.Router = httptransport.NewRouter(httptransport.Deps{
		Credentials:   credentialHandler.New(credentialSvc, logger),
		Notes:         noteHandler.New(noteSvc, logger),
		Health:        healthHandler,
		Tokens:        jwttoken.NewMiddlewareAdapter(jwtService),
		Metadata:      metadata.NewMiddleware(&metadata.Config{TrustedProxies: trusted}),
		Metrics:       request.NewMetrics(o.registerer),
		AuthRateLimit: a.authRateLimit(cfg.RateLimit, m, logger),
		Logger:        logger,
	})

	logger.InfoContext(ctx, "jotter assembled",
		"storage", store.Kind,
		"seeded", cfg.Seed,
	)
	return a, nil
}

// authRateLimit shares buckets through redis when that is the storage
// backend and keeps them in process otherwise.
func (a *App) authRateLimit(cfg config.RateLimitConfig, m *metrics.Metrics, logger *slog.Logger) *ratelimit.Middleware {
	if cfg.AuthLimit == 0 {
		return nil
	}
	var buckets ratelimit.BucketStore
	if a.Backend.RedisClient != nil {
		buckets = bucket.NewRedisBucketStore(a.Backend.RedisClient.Client, "jotter:ratelimit")
	} else {
		a.RateLimitBuckets = bucket.NewInMemoryBucketStore()
		buckets = a.RateLimitBuckets
	}
	return ratelimit.New(buckets, "auth", cfg.AuthLimit, cfg.AuthWindow, logger,
		ratelimit.WithDenyHook(m.IncrementRateLimited))
}

// notifierFromConfig publishes to Kafka when brokers are configured and
// logs reset links otherwise.
func (a *App) notifierFromConfig(cfg config.Server, logger *slog.Logger, h *health.Handler) (credentialService.Notifier, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("no kafka brokers configured, reset links will be logged")
		return notify.NewLogNotifier(logger, "http://localhost"+cfg.Addr+"/reset-password"), nil
	}
	p, err := producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), logger)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	a.closers = append(a.closers, p.Close)
	h.RegisterCheck("kafka", p.Health)
	return notify.NewKafkaNotifier(p, cfg.Kafka.ResetTopic, logger), nil
}

// Close releases everything New opened, most recent first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
