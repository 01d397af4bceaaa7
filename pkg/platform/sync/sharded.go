package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedMutex serializes work per key while letting unrelated keys proceed.
// Two keys may share a shard; that only costs contention, never correctness.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

func (m *ShardedMutex) Lock(key string) {
	m.shards[shardFor(key)].Lock()
}

func (m *ShardedMutex) Unlock(key string) {
	m.shards[shardFor(key)].Unlock()
}

// WithLock runs fn while holding key's shard.
func (m *ShardedMutex) WithLock(key string, fn func() error) error {
	m.Lock(key)
	defer m.Unlock(key)
	return fn()
}

func shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
