package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jotter/internal/storage"
)

// Adapter keeps one hash per entity (id -> JSON) plus a sorted set that
// remembers first-insert order.
type Adapter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

type Option func(*Adapter)

// WithPrefix namespaces keys; default "jotter".
func WithPrefix(prefix string) Option {
	return func(a *Adapter) {
		if prefix != "" {
			a.prefix = prefix
		}
	}
}

func NewAdapter(client redis.UniversalClient, opts ...Option) *Adapter {
	a := &Adapter{client: client, prefix: "jotter", now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) hashKey(entity string) string  { return a.prefix + ":" + entity }
func (a *Adapter) orderKey(entity string) string { return a.prefix + ":" + entity + ":order" }

func (a *Adapter) List(ctx context.Context, entity string) ([]storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return nil, err
	}
	ids, err := a.client.ZRange(ctx, a.orderKey(entity), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", entity, err)
	}
	docs := make([]storage.Document, 0, len(ids))
	if len(ids) == 0 {
		return docs, nil
	}

	values, err := a.client.HMGet(ctx, a.hashKey(entity), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", entity, err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// deleted between ZRANGE and HMGET
			continue
		}
		docs = append(docs, storage.Document{ID: ids[i], Data: []byte(s)})
	}
	return docs, nil
}

func (a *Adapter) Get(ctx context.Context, entity, id string) (storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return storage.Document{}, err
	}
	data, err := a.client.HGet(ctx, a.hashKey(entity), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return storage.Document{}, storage.NotFound(entity, id)
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("redis get %s/%s: %w", entity, id, err)
	}
	return storage.Document{ID: id, Data: data}, nil
}

// Insert writes the hash field and order entry in one MULTI; ZADD NX keeps
// the original position on replace.
func (a *Adapter) Insert(ctx context.Context, entity string, doc storage.Document) (string, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return "", err
	}
	id := storage.AssignID(doc.ID)
	score := float64(a.now().UnixMicro())

	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, a.hashKey(entity), id, []byte(doc.Data))
		pipe.ZAddNX(ctx, a.orderKey(entity), redis.Z{Score: score, Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redis insert %s/%s: %w", entity, id, err)
	}
	return id, nil
}

func (a *Adapter) Delete(ctx context.Context, entity, id string) (int64, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return 0, err
	}
	var del *redis.IntCmd
	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.HDel(ctx, a.hashKey(entity), id)
		pipe.ZRem(ctx, a.orderKey(entity), id)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis delete %s/%s: %w", entity, id, err)
	}
	return del.Val(), nil
}

var _ storage.Adapter = (*Adapter)(nil)
