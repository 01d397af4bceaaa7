package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 5 * time.Second

var errNotConfigured = errors.New("database not configured")

type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func DefaultConfig(url string) Config {
	return Config{URL: url, MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}
}

// Pool owns the pgx-backed *sql.DB used by the postgres note and credential
// stores.
type Pool struct {
	db *sql.DB
}

// New opens the pool and fails unless the server answers a ping.
func New(ctx context.Context, cfg Config) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("database url is empty")
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	p := &Pool{db: db}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Health(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return p, nil
}

// FromDB adopts an already open handle, such as a sqlmock connection.
func FromDB(db *sql.DB) *Pool { return &Pool{db: db} }

func (p *Pool) DB() *sql.DB { return p.db }

func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return errNotConfigured
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
