package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

var errClosed = errors.New("producer is closed")

// flushTimeout bounds how long Close waits for buffered records.
const flushTimeout = 10 * time.Second

type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type Config struct {
	Brokers         []string
	Retries         int
	DeliveryTimeout time.Duration
	// LeaderAckOnly trades durability for latency; idempotent writes are
	// turned off with it since they need every in-sync replica.
	LeaderAckOnly bool
}

func DefaultConfig(brokers []string) Config {
	return Config{
		Brokers:         brokers,
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}
}

// Producer publishes records synchronously through franz-go.
type Producer struct {
	client *kgo.Client
	logger *slog.Logger
	closed atomic.Bool
}

func New(cfg Config, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RecordRetries(cfg.Retries),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	}
	if cfg.LeaderAckOnly {
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	} else {
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	}
	if cfg.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{client: client, logger: logger}, nil
}

// Produce returns once the broker has acknowledged msg or ctx is done.
func (p *Producer) Produce(ctx context.Context, msg *Message) error {
	if p.closed.Load() {
		return errClosed
	}

	rec := &kgo.Record{Topic: msg.Topic, Key: msg.Key, Value: msg.Value}
	for k, v := range msg.Headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer closed with unflushed records", "error", err)
	}
	p.client.Close()
	return nil
}

// Health pings the seed brokers.
func (p *Producer) Health(ctx context.Context) error {
	if p.closed.Load() {
		return errClosed
	}
	return p.client.Ping(ctx)
}
