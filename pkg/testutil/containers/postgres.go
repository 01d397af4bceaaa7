//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:18-alpine"

// PostgresContainer is an empty database. The postgres adapter migrates it
// when it opens.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	// The server logs readiness twice: once for the init run, once for real.
	ready := wait.ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(time.Minute)

	c, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("jotter_test"),
		postgres.WithUsername("jotter"),
		postgres.WithPassword("jotter_test_password"),
		testcontainers.WithWaitStrategy(ready),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	fail := func(step string, err error) {
		_ = c.Terminate(ctx)
		t.Fatalf("%s: %v", step, err)
	}
	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fail("postgres dsn", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		fail("open postgres", err)
	}
	return &PostgresContainer{Container: c, DSN: dsn, DB: db}
}

// TruncateDocuments empties the documents table between tests.
func (p *PostgresContainer) TruncateDocuments(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE documents")
	return err
}
