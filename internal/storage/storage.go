// Package storage defines the capability set every persistence backend
// implements. Adapters store opaque JSON documents grouped by entity name;
// typed access lives in the repository package.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jotter/pkg/platform/sentinel"
)

// Document is one stored record. Data is the JSON encoding of the entity.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Adapter is implemented once per storage technology.
//
// Insert with an empty ID assigns a fresh UUIDv4 and returns it; with a
// non-empty ID it atomically replaces (or creates) that record. Get returns
// an error wrapping sentinel.ErrNotFound for a missing record. Delete
// reports how many records were removed, 0 for a missing ID.
type Adapter interface {
	List(ctx context.Context, entity string) ([]Document, error)
	Get(ctx context.Context, entity, id string) (Document, error)
	Insert(ctx context.Context, entity string, doc Document) (string, error)
	Delete(ctx context.Context, entity, id string) (int64, error)
}

// Names the adapter kinds for logs and span attributes.
const (
	KindMemory   = "memory"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindRedis    = "redis"
	KindS3       = "s3"
)

// CheckEntity rejects names adapters cannot safely use as a namespace.
func CheckEntity(entity string) error {
	if entity == "" || strings.ContainsAny(entity, "/: \t\n") {
		return fmt.Errorf("entity name %q: %w", entity, sentinel.ErrInvalidInput)
	}
	return nil
}

// AssignID returns id, or a new UUIDv4 when id is empty.
func AssignID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// NotFound wraps sentinel.ErrNotFound with the record coordinates.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s/%s: %w", entity, id, sentinel.ErrNotFound)
}
