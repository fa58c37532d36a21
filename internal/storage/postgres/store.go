package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"activityScope/internal/model"
)

// Schema creates the export tables.
const Schema = `
CREATE TABLE IF NOT EXISTS activity_events (
	chain_id     BIGINT      NOT NULL,
	contract     TEXT        NOT NULL,
	tx_hash      TEXT        NOT NULL,
	log_index    BIGINT      NOT NULL,
	kind         TEXT        NOT NULL,
	block_number BIGINT      NOT NULL,
	block_ts     BIGINT,
	decoded      JSONB       NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, contract, tx_hash, log_index)
);
CREATE INDEX IF NOT EXISTS activity_events_recent
	ON activity_events (chain_id, contract, block_number DESC, log_index DESC);
CREATE TABLE IF NOT EXISTS export_state (
	name       TEXT        PRIMARY KEY,
	last_block BIGINT      NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store exports activity to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertEvents inserts or refreshes event records.
func (s *Store) UpsertEvents(ctx context.Context, records []model.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		decoded, err := json.Marshal(rec.Decoded)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", rec.Kind, err)
		}
		var ts *int64
		if rec.Timestamp != nil {
			v := int64(*rec.Timestamp)
			ts = &v
		}
		batch.Queue(`
			INSERT INTO activity_events (
				chain_id, contract, tx_hash, log_index, kind, block_number, block_ts, decoded, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			ON CONFLICT (chain_id, contract, tx_hash, log_index)
			DO UPDATE SET
				kind = EXCLUDED.kind,
				block_number = EXCLUDED.block_number,
				block_ts = COALESCE(EXCLUDED.block_ts, activity_events.block_ts),
				decoded = EXCLUDED.decoded,
				updated_at = now()
		`,
			int64(rec.ChainID),
			rec.Contract,
			rec.TxHash,
			int64(rec.LogIndex),
			string(rec.Kind),
			int64(rec.BlockNumber),
			ts,
			decoded,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadLastBlock returns the highest exported block recorded under name.
func (s *Store) LoadLastBlock(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var block int64
	row := s.pool.QueryRow(ctx, `SELECT last_block FROM export_state WHERE name=$1`, name)
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(block), true, nil
}

// SaveLastBlock records the highest exported block under name. It never
// moves backwards.
func (s *Store) SaveLastBlock(ctx context.Context, name string, block uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO export_state (name, last_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_block = GREATEST(export_state.last_block, EXCLUDED.last_block), updated_at = now()
	`, name, int64(block))
	return err
}

// StateName is the export_state key for a contract on a chain.
func StateName(chainID uint64, contract string) string {
	return fmt.Sprintf("activity:%d:%s", chainID, contract)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
