package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/2beens/fitprogress/internal/telemetry/tracing"
	"github.com/2beens/fitprogress/pkg"

	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps the values in a single-file database on the device,
// which is what a local-only install uses instead of redis.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := pkg.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// single local writer
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.sqlite.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	var value string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.sqlite.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
