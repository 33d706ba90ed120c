// Package postgres connects the key-value store to PostgreSQL through the
// pgx stdlib driver and applies its schema with goose.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/blogkeeper/internal/kv/postgres/migrations"
	"github.com/dmitrijs2005/blogkeeper/internal/kv/sqlkv"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// New migrates db and wraps it in a repository.
func New(ctx context.Context, db *sql.DB) (*sqlkv.Repository, error) {
	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to migrate postgres database: %w", err)
	}
	return sqlkv.New(db, sqlkv.Postgres), nil
}

// Open connects to dsn, checks the connection and migrates the schema.
func Open(ctx context.Context, dsn string) (*sqlkv.Repository, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	r, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}
