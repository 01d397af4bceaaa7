//go:build integration

// Package containers starts throwaway backing services for integration tests.
// Each service starts at most once per test binary and is shared by every
// suite in it.
package containers

import (
	"sync"
	"testing"
)

type Manager struct {
	postgres lazy[*PostgresContainer]
	redis    lazy[*RedisContainer]
	kafka    lazy[*KafkaContainer]
}

// lazy starts a container on first use. A failed start fails the calling
// test and is retried by the next caller.
type lazy[T any] struct {
	mu  sync.Mutex
	val T
	ok  bool
}

func (l *lazy[T]) get(t *testing.T, start func(*testing.T) T) T {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ok {
		l.val = start(t)
		l.ok = true
	}
	return l.val
}

var manager = &Manager{}

func GetManager() *Manager { return manager }

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	return m.postgres.get(t, NewPostgresContainer)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	return m.redis.get(t, NewRedisContainer)
}

func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	return m.kafka.get(t, NewKafkaContainer)
}
