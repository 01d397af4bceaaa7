package memory

import (
	"context"
	"slices"
	"sync"

	"jotter/internal/storage"
)

type table struct {
	order []string
	docs  map[string][]byte
}

// Adapter keeps documents in process memory in insertion order.
type Adapter struct {
	mu     sync.RWMutex
	tables map[string]*table
}

func New() *Adapter {
	return &Adapter{tables: make(map[string]*table)}
}

func (a *Adapter) List(_ context.Context, entity string) ([]storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	t, ok := a.tables[entity]
	if !ok {
		return []storage.Document{}, nil
	}
	out := make([]storage.Document, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, storage.Document{ID: id, Data: slices.Clone(t.docs[id])})
	}
	return out, nil
}

func (a *Adapter) Get(_ context.Context, entity, id string) (storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return storage.Document{}, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	if t, ok := a.tables[entity]; ok {
		if data, ok := t.docs[id]; ok {
			return storage.Document{ID: id, Data: slices.Clone(data)}, nil
		}
	}
	return storage.Document{}, storage.NotFound(entity, id)
}

func (a *Adapter) Insert(_ context.Context, entity string, doc storage.Document) (string, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return "", err
	}
	id := storage.AssignID(doc.ID)

	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.tables[entity]
	if !ok {
		t = &table{docs: make(map[string][]byte)}
		a.tables[entity] = t
	}
	if _, exists := t.docs[id]; !exists {
		t.order = append(t.order, id)
	}
	t.docs[id] = slices.Clone(doc.Data)
	return id, nil
}

func (a *Adapter) Delete(_ context.Context, entity, id string) (int64, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.tables[entity]
	if !ok {
		return 0, nil
	}
	if _, exists := t.docs[id]; !exists {
		return 0, nil
	}
	delete(t.docs, id)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
	return 1, nil
}

var _ storage.Adapter = (*Adapter)(nil)
