package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"jotter/internal/ratelimit/models"
)

// slidingWindowScript trims the sorted set to the window, then adds the hit
// if it fits. Returns {allowed, count, oldest score}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, member)
  count = count + 1
  allowed = 1
end
redis.call('PEXPIRE', key, window)
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = ARGV[1]
if oldest[2] then first = oldest[2] end
return {allowed, count, first}
`)

type RedisBucketStore struct {
	client redis.Scripter
	prefix string
}

func NewRedisBucketStore(client redis.Scripter, prefix string) *RedisBucketStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisBucketStore{client: client, prefix: prefix}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (*models.Result, error) {
	res, err := slidingWindowScript.Run(ctx, s.client,
		[]string{s.prefix + ":" + key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit %s: unexpected script reply %v", key, res)
	}

	allowed := res[0].(int64) == 1
	count := int(res[1].(int64))
	oldestMillis, err := strconv.ParseInt(fmt.Sprint(res[2]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: parse oldest hit: %w", key, err)
	}
	resetAt := time.UnixMilli(oldestMillis).Add(window)

	remaining := max(limit-count, 0)
	if !allowed {
		remaining = 0
	}
	return &models.Result{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: models.RetryAfterSeconds(allowed, resetAt, now),
	}, nil
}
