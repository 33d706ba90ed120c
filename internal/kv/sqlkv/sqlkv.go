// Package sqlkv implements kv.Repository on a single SQL table shared by
// the SQLite and PostgreSQL backends:
//
//	kv(key TEXT PRIMARY KEY, value BLOB/BYTEA NOT NULL, updated_at TIMESTAMP)
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/kv"
)

const table = "kv"

// Dialect selects placeholder style and row-locking support.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

type Repository struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

var (
	_ kv.Repository = (*Repository)(nil)
	_ kv.Updater    = (*Repository)(nil)
)

func New(db *sql.DB, dialect Dialect) *Repository {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == Postgres {
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &Repository{db: db, dialect: dialect, sb: sb}
}

// DB exposes the underlying pool, mainly for migrations and tests.
func (r *Repository) DB() *sql.DB { return r.db }

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	return r.get(ctx, r.db, key, false)
}

func (r *Repository) Set(ctx context.Context, key string, value []byte) error {
	return r.set(ctx, r.db, key, value)
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.delete(ctx, r.db, key)
}

func (r *Repository) Clear(ctx context.Context) error {
	query, args, err := r.sb.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) (map[string][]byte, error) {
	query, args, err := r.sb.Select("key", "value").From(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}
	return result, nil
}

// Update runs fn inside a transaction. On PostgreSQL the row is locked with
// SELECT ... FOR UPDATE; SQLite serialises writers on its own.
func (r *Repository) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := r.get(ctx, tx, key, r.dialect == Postgres)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return r.delete(ctx, tx, key)
		}
		return r.set(ctx, tx, key, next)
	})
}

func (r *Repository) get(ctx context.Context, q dbx.DBTX, key string, lock bool) ([]byte, error) {
	b := r.sb.Select("value").From(table).Where(sq.Eq{"key": key})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	var value []byte
	err = q.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (r *Repository) set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	query, args, err := r.sb.Insert(table).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set query: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *Repository) delete(ctx context.Context, q dbx.DBTX, key string) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}
