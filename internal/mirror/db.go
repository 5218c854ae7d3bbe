package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the PostgreSQL side of the mirror.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a small pool; the mirror only ever runs one writer per
// resource.
func Connect(ctx context.Context, dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = 10 * time.Minute
	config.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// InitSchema creates the mirror tables if they do not exist.
func (db *DB) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS haul_records (
			resource    TEXT NOT NULL,
			record_id   TEXT NOT NULL,
			payload     JSONB NOT NULL,
			fetched_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (resource, record_id)
		)`,
		`CREATE INDEX IF NOT EXISTS haul_records_fetched_idx ON haul_records (resource, fetched_at)`,
		`CREATE TABLE IF NOT EXISTS haul_mirror_runs (
			id           TEXT PRIMARY KEY,
			started_at   TIMESTAMPTZ NOT NULL,
			finished_at  TIMESTAMPTZ NOT NULL,
			counts       JSONB NOT NULL
		)`,
	}
	for _, sql := range stmts {
		if _, err := db.pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to create mirror schema: %w", err)
		}
	}
	return nil
}

// withTx executes fn within a transaction.
func (db *DB) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

const upsertRecord = `
INSERT INTO haul_records (resource, record_id, payload, fetched_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (resource, record_id)
DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at`

// Replace upserts rows for resource and removes rows the backend no longer
// returns, in one transaction.
func (db *DB) Replace(ctx context.Context, resource string, rows []Row, at time.Time) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, r := range rows {
			batch.Queue(upsertRecord, resource, r.ID, r.Payload, at)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert %s: %w", resource, err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM haul_records WHERE resource = $1 AND fetched_at < $2`,
			resource, at); err != nil {
			return fmt.Errorf("prune %s: %w", resource, err)
		}
		return nil
	})
}

// RecordRun stores a summary of one mirror run.
func (db *DB) RecordRun(ctx context.Context, run Run) error {
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO haul_mirror_runs (id, started_at, finished_at, counts) VALUES ($1, $2, $3, $4)`,
		run.ID, run.Started, run.Finished, counts)
	return err
}

// Counts returns the number of mirrored rows per resource.
func (db *DB) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := db.pool.Query(ctx, `SELECT resource, count(*) FROM haul_records GROUP BY resource`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, rows.Err()
}
