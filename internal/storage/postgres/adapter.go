package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"jotter/internal/storage"
	"jotter/migrations"
)

// Adapter stores documents as JSONB rows in a single documents table.
type Adapter struct {
	db *sql.DB
}

// NewAdapter wraps an open pgx-backed *sql.DB. Call Migrate before use.
func NewAdapter(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Migrate applies the embedded goose migrations.
func (a *Adapter) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, a.db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

const (
	listQuery   = `SELECT id, data FROM documents WHERE entity = $1 ORDER BY seq`
	getQuery    = `SELECT data FROM documents WHERE entity = $1 AND id = $2`
	deleteQuery = `DELETE FROM documents WHERE entity = $1 AND id = $2`
	upsertQuery = `INSERT INTO documents (entity, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
)

func (a *Adapter) List(ctx context.Context, entity string) ([]storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return nil, err
	}
	rows, err := a.db.QueryContext(ctx, listQuery, entity)
	if err != nil {
		return nil, fmt.Errorf("db error: list %s: %w", entity, err)
	}
	defer rows.Close()

	docs := []storage.Document{}
	for rows.Next() {
		var d storage.Document
		var data []byte
		if err := rows.Scan(&d.ID, &data); err != nil {
			return nil, fmt.Errorf("db error: scan %s: %w", entity, err)
		}
		d.Data = data
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: iterate %s: %w", entity, err)
	}
	return docs, nil
}

func (a *Adapter) Get(ctx context.Context, entity, id string) (storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return storage.Document{}, err
	}
	var data []byte
	err := a.db.QueryRowContext(ctx, getQuery, entity, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Document{}, storage.NotFound(entity, id)
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("db error: get %s/%s: %w", entity, id, err)
	}
	return storage.Document{ID: id, Data: data}, nil
}

func (a *Adapter) Insert(ctx context.Context, entity string, doc storage.Document) (string, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return "", err
	}
	id := storage.AssignID(doc.ID)
	if _, err := a.db.ExecContext(ctx, upsertQuery, entity, id, []byte(doc.Data)); err != nil {
		return "", fmt.Errorf("db error: insert %s/%s: %w", entity, id, err)
	}
	return id, nil
}

func (a *Adapter) Delete(ctx context.Context, entity, id string) (int64, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return 0, err
	}
	res, err := a.db.ExecContext(ctx, deleteQuery, entity, id)
	if err != nil {
		return 0, fmt.Errorf("db error: delete %s/%s: %w", entity, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: rows affected: %w", err)
	}
	return n, nil
}

var _ storage.Adapter = (*Adapter)(nil)
