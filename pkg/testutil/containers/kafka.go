//go:build integration

package containers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaContainer is a single Redpanda broker speaking the Kafka protocol.
type KafkaContainer struct {
	Container testcontainers.Container
	Brokers   string
}

func NewKafkaContainer(t *testing.T) *KafkaContainer {
	t.Helper()
	ctx := context.Background()

	container, err := kafka.Run(ctx, "redpandadata/redpanda:latest", kafka.WithClusterID("jotter-it"))
	if err != nil {
		t.Fatalf("start kafka: %v", err)
	}
	brokers, err := container.Brokers(ctx)
	if err != nil || len(brokers) == 0 {
		_ = container.Terminate(ctx)
		t.Fatalf("kafka brokers: %v", err)
	}
	return &KafkaContainer{Container: container, Brokers: brokers[0]}
}

func (k *KafkaContainer) admin() (*kadm.Client, func(), error) {
	client, err := kgo.NewClient(kgo.SeedBrokers(k.Brokers))
	if err != nil {
		return nil, nil, err
	}
	return kadm.NewClient(client), client.Close, nil
}

// FreshTopic creates a single-partition topic named after prefix that no
// other test uses.
func (k *KafkaContainer) FreshTopic(ctx context.Context, prefix string) (string, error) {
	adm, done, err := k.admin()
	if err != nil {
		return "", err
	}
	defer done()

	topic := fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
	resp, err := adm.CreateTopic(ctx, 1, 1, nil, topic)
	if err != nil {
		return "", err
	}
	return topic, resp.Err
}

// ReadKey consumes topic from the start and returns the first record with
// the given key, or nil once timeout passes.
func (k *KafkaContainer) ReadKey(ctx context.Context, topic, key string, timeout time.Duration) (*kgo.Record, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(k.Brokers),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for ctx.Err() == nil {
		fetches := client.PollFetches(ctx)
		iter := fetches.RecordIter()
		for !iter.Done() {
			if r := iter.Next(); string(r.Key) == key {
				return r, nil
			}
		}
	}
	return nil, nil
}
