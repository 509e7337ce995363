//go:build integration

// Package containers manages shared testcontainers instances for integration
// suites. One postgres container serves the whole test binary; suites
// truncate the tables they touch between tests.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a running postgres instance with the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

var (
	pgOnce      sync.Once
	pgSingleton *PostgresContainer
	pgErr       error
)

// GetPostgres returns the shared postgres container, starting it on first
// use. The schema from migrations/001_init.sql is applied at startup; Ryuk
// reaps the container after the test binary exits.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	pgOnce.Do(func() {
		pgSingleton, pgErr = startPostgres(context.Background())
	})
	if pgErr != nil {
		t.Fatalf("failed to start postgres container: %v", pgErr)
	}
	return pgSingleton
}

func startPostgres(ctx context.Context) (*PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("placements"),
		tcpostgres.WithUsername("placements"),
		tcpostgres.WithPassword("placements"),
		tcpostgres.WithInitScripts(migrationPath("001_init.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("run container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}, nil
}

// TruncateTables empties the given tables, cascading to dependents. Call
// between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func migrationPath(name string) string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "migrations", name)
}
