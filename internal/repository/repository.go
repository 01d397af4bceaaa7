// Package repository gives typed, entity-agnostic access to a storage
// adapter. A Repository binds one entity name to one adapter for its whole
// lifetime and carries no state of its own.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"jotter/internal/platform/tracer"
	"jotter/internal/storage"
	"jotter/internal/storage/memory"
	"jotter/internal/storage/sqlite"
	"jotter/pkg/platform/sentinel"
)

// Entity is implemented by pointer types the repository can stamp IDs into.
type Entity interface {
	GetID() string
	SetID(id string)
}

// Observer is told about every adapter call; metrics.Metrics satisfies it.
type Observer interface {
	ObserveStorage(entity, op string, err error)
}

type Repository[T any, PT interface {
	*T
	Entity
}] struct {
	entity   string
	adapter  storage.Adapter
	tracer   tracer.Tracer
	observer Observer
}

type Option func(*options)

type options struct {
	tracer   tracer.Tracer
	observer Observer
}

func WithTracer(t tracer.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New binds entity to adapter. A nil adapter means DefaultAdapter().
func New[T any, PT interface {
	*T
	Entity
}](entity string, adapter storage.Adapter, opts ...Option) *Repository[T, PT] {
	o := options{tracer: tracer.NewNoop()}
	for _, opt := range opts {
		opt(&o)
	}
	if adapter == nil {
		adapter = DefaultAdapter()
	}
	return &Repository[T, PT]{
		entity:   entity,
		adapter:  adapter,
		tracer:   o.tracer,
		observer: o.observer,
	}
}

func (r *Repository[T, PT]) Entity() string { return r.entity }

func (r *Repository[T, PT]) observe(op string, err error) {
	if r.observer != nil {
		r.observer.ObserveStorage(r.entity, op, err)
	}
}

// List returns every record; never nil.
func (r *Repository[T, PT]) List(ctx context.Context) (out []T, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanRepositoryList, tracer.String(tracer.AttrEntity, r.entity))
	defer func() { span.End(err); r.observe("list", err) }()

	docs, err := r.adapter.List(ctx, r.entity)
	if err != nil {
		return nil, err
	}
	out = make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := r.decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	span.SetAttributes(tracer.Int(tracer.AttrCount, len(out)))
	return out, nil
}

// GetByID returns nil, nil when no record has id.
func (r *Repository[T, PT]) GetByID(ctx context.Context, id string) (out *T, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanRepositoryGet,
		tracer.String(tracer.AttrEntity, r.entity),
		tracer.String(tracer.AttrRecordID, id),
	)
	defer func() { span.End(err); r.observe("get", err) }()

	doc, err := r.adapter.Get(ctx, r.entity, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		span.SetAttributes(tracer.Bool(tracer.AttrFound, false))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.Bool(tracer.AttrFound, true))
	return r.decode(doc)
}

// Insert stores v without validation and stamps the assigned ID into it.
// If v already has an ID the stored record is replaced.
func (r *Repository[T, PT]) Insert(ctx context.Context, v *T) (id string, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanRepositoryInsert, tracer.String(tracer.AttrEntity, r.entity))
	defer func() { span.End(err); r.observe("insert", err) }()

	if v == nil {
		return "", fmt.Errorf("insert %s: nil record: %w", r.entity, sentinel.ErrInvalidInput)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", r.entity, err)
	}
	id, err = r.adapter.Insert(ctx, r.entity, storage.Document{ID: PT(v).GetID(), Data: data})
	if err != nil {
		return "", err
	}
	PT(v).SetID(id)
	span.SetAttributes(tracer.String(tracer.AttrRecordID, id))
	return id, nil
}

// Delete returns 0, nil for a missing id.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) (n int64, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanRepositoryDelete,
		tracer.String(tracer.AttrEntity, r.entity),
		tracer.String(tracer.AttrRecordID, id),
	)
	defer func() { span.End(err); r.observe("delete", err) }()

	n, err = r.adapter.Delete(ctx, r.entity, id)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(tracer.Int64(tracer.AttrAffected, n))
	return n, nil
}

func (r *Repository[T, PT]) decode(doc storage.Document) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(doc.Data, v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", r.entity, doc.ID, err)
	}
	PT(v).SetID(doc.ID)
	return v, nil
}

var (
	defaultOnce    sync.Once
	defaultAdapter storage.Adapter
)

// DefaultAdapter is the only environment-sensing piece of the package: it
// opens sqlite at JOTTER_SQLITE_PATH (default jotter.db) once per process
// and falls back to memory if that fails.
func DefaultAdapter() storage.Adapter {
	defaultOnce.Do(func() {
		path := os.Getenv("JOTTER_SQLITE_PATH")
		if path == "" {
			path = "jotter.db"
		}
		db, err := sqlite.Open(context.Background(), path)
		if err != nil {
			slog.Warn("sqlite unavailable, using in-memory storage", "path", path, "error", err)
			defaultAdapter = memory.New()
			return
		}
		defaultAdapter = sqlite.NewAdapter(db)
	})
	return defaultAdapter
}
