// Package notify delivers password-reset confirmations out of band.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jotter/internal/credential/models"
	"jotter/internal/platform/kafka/producer"
	"jotter/pkg/platform/circuit"
	"jotter/pkg/platform/privacy"
)

// ErrCircuitOpen is returned while the broker is considered down.
var ErrCircuitOpen = errors.New("notification circuit open")

// LogNotifier writes the reset link to the log. Development only: the
// token is logged in clear so a developer can finish the flow by hand.
type LogNotifier struct {
	logger  *slog.Logger
	linkURL string
}

func NewLogNotifier(logger *slog.Logger, linkURL string) *LogNotifier {
	return &LogNotifier{logger: logger, linkURL: linkURL}
}

func (n *LogNotifier) NotifyPasswordReset(ctx context.Context, msg models.ResetNotification) error {
	n.logger.InfoContext(ctx, "password reset notification",
		"email", msg.Email,
		"device", msg.Device,
		"expires_at", msg.ExpiresAt.Format(time.RFC3339),
		"reset_link", fmt.Sprintf("%s?email=%s&token=%s", n.linkURL, msg.Email, msg.Token),
	)
	return nil
}

// Publisher is the slice of the Kafka producer the notifier uses.
type Publisher interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// ResetRequestedEvent is the wire format on the reset topic; a mailer
// service consumes it and sends the actual email.
type ResetRequestedEvent struct {
	Event      string    `json:"event"`
	Email      string    `json:"email"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	Device     string    `json:"device"`
	OccurredAt time.Time `json:"occurred_at"`
}

const EventPasswordResetRequested = "password_reset_requested"

type KafkaNotifier struct {
	publisher Publisher
	topic     string
	breaker   *circuit.Breaker
	logger    *slog.Logger
	now       func() time.Time
}

type KafkaOption func(*KafkaNotifier)

func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(n *KafkaNotifier) {
		if b != nil {
			n.breaker = b
		}
	}
}

func WithClock(now func() time.Time) KafkaOption {
	return func(n *KafkaNotifier) {
		if now != nil {
			n.now = now
		}
	}
}

func NewKafkaNotifier(publisher Publisher, topic string, logger *slog.Logger, opts ...KafkaOption) *KafkaNotifier {
	n := &KafkaNotifier{
		publisher: publisher,
		topic:     topic,
		breaker:   circuit.New("kafka-reset-notifier"),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyPasswordReset publishes one event keyed by email so all requests
// for an account land on the same partition in order.
func (n *KafkaNotifier) NotifyPasswordReset(ctx context.Context, msg models.ResetNotification) error {
	if !n.breaker.Allow() {
		return ErrCircuitOpen
	}

	payload, err := json.Marshal(ResetRequestedEvent{
		Event:      EventPasswordResetRequested,
		Email:      msg.Email,
		Token:      msg.Token,
		ExpiresAt:  msg.ExpiresAt,
		Device:     msg.Device,
		OccurredAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode reset event: %w", err)
	}

	err = n.publisher.Produce(ctx, &producer.Message{
		Topic:   n.topic,
		Key:     []byte(msg.Email),
		Value:   payload,
		Headers: map[string]string{"event_type": EventPasswordResetRequested},
	})
	if err != nil {
		if n.breaker.RecordFailure() {
			n.logger.WarnContext(ctx, "reset notifier circuit opened",
				"breaker", n.breaker.Name(),
				"email", privacy.MaskEmail(msg.Email),
			)
		}
		return fmt.Errorf("publish reset event: %w", err)
	}
	if n.breaker.RecordSuccess() {
		n.logger.InfoContext(ctx, "reset notifier circuit closed", "breaker", n.breaker.Name())
	}
	return nil
}
