package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks CredentialStore,TokenIssuer,Notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"jotter/internal/credential/models"
	"jotter/internal/platform/metrics"
	"jotter/internal/platform/tracer"
	psync "jotter/pkg/platform/sync"
)

// CredentialStore is satisfied by repository.Repository[models.Credential].
// GetByID returns nil, nil when the email is unknown.
type CredentialStore interface {
	GetByID(ctx context.Context, id string) (*models.Credential, error)
	Insert(ctx context.Context, c *models.Credential) (string, error)
}

type TokenIssuer interface {
	GenerateAccessToken(ctx context.Context, subject string) (string, time.Time, error)
}

// Notifier delivers the reset token to the account owner.
type Notifier interface {
	NotifyPasswordReset(ctx context.Context, msg models.ResetNotification) error
}

const defaultResetTTL = 30 * time.Minute

type Service struct {
	credentials CredentialStore
	tokens      TokenIssuer
	notifier    Notifier
	resetTTL    time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	locks       *psync.ShardedMutex

	dummyOnce sync.Once
	dummyHash string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithResetTTL configures how long a reset token stays redeemable.
// Zero or negative keeps the 30 minute default.
func WithResetTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

func New(credentials CredentialStore, tokens TokenIssuer, opts ...Option) *Service {
	svc := &Service{
		credentials: credentials,
		tokens:      tokens,
		resetTTL:    defaultResetTTL,
		tracer:      tracer.NewNoop(),
		locks:       psync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}
