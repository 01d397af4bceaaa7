//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"jotter/internal/platform/config"
	platformredis "jotter/internal/platform/redis"
	"jotter/internal/storage/redis"
	"jotter/internal/storage/storagetest"
	"jotter/pkg/testutil/containers"
)

func TestRedisAdapterContract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)

	client, err := platformredis.New(context.Background(), config.RedisConfig{URL: rc.URL}, prometheus.NewRegistry())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Health(context.Background()))
	storagetest.Run(t, redis.NewAdapter(client.Client, redis.WithPrefix("it")), storagetest.Options{Ordered: true})
	client.RecordPoolStats()
}
