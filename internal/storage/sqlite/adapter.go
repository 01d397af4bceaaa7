package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jotter/internal/storage"
)

// Adapter stores every entity in one documents table keyed by (entity, id).
type Adapter struct {
	db  *DB
	now func() time.Time
}

func NewAdapter(db *DB) *Adapter {
	return &Adapter{db: db, now: time.Now}
}

func (a *Adapter) List(ctx context.Context, entity string) ([]storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return nil, err
	}
	rows, err := a.db.Reader.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE entity = ? ORDER BY rowid`, entity)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}
	defer rows.Close()

	docs := []storage.Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", entity, err)
		}
		docs = append(docs, storage.Document{ID: id, Data: []byte(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", entity, err)
	}
	return docs, nil
}

func (a *Adapter) Get(ctx context.Context, entity, id string) (storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return storage.Document{}, err
	}
	var data string
	err := a.db.Reader.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE entity = ? AND id = ?`, entity, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Document{}, storage.NotFound(entity, id)
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("get %s/%s: %w", entity, id, err)
	}
	return storage.Document{ID: id, Data: []byte(data)}, nil
}

// Insert upserts; the original rowid and created_at survive a replace so
// list order is first-insert order.
func (a *Adapter) Insert(ctx context.Context, entity string, doc storage.Document) (string, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return "", err
	}
	id := storage.AssignID(doc.ID)
	now := a.now().UnixNano()

	_, err := a.db.Writer.ExecContext(ctx, `
		INSERT INTO documents (entity, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (entity, id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		entity, id, string(doc.Data), now, now)
	if err != nil {
		return "", fmt.Errorf("insert %s/%s: %w", entity, id, err)
	}
	return id, nil
}

func (a *Adapter) Delete(ctx context.Context, entity, id string) (int64, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return 0, err
	}
	res, err := a.db.Writer.ExecContext(ctx,
		`DELETE FROM documents WHERE entity = ? AND id = ?`, entity, id)
	if err != nil {
		return 0, fmt.Errorf("delete %s/%s: %w", entity, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete %s/%s: rows affected: %w", entity, id, err)
	}
	return n, nil
}

var _ storage.Adapter = (*Adapter)(nil)
