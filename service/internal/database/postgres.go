package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/gemduel/engine"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS replays (
    game_id      UUID PRIMARY KEY,
    version      TEXT NOT NULL,
    winner       TEXT NOT NULL DEFAULT '',
    action_count INTEGER NOT NULL,
    replay       JSONB NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS replays_created_at_idx ON replays (created_at DESC);
`

// PostgresStore archives replays in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and ensures the schema exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure replay schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// SaveReplay inserts or replaces the replay for rec.GameID.
func (s *PostgresStore) SaveReplay(ctx context.Context, rec ReplayRecord) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := validateRecord(rec); err != nil {
		return err
	}
	data, err := encodeReplay(rec.Replay)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO replays (game_id, version, winner, action_count, replay, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (game_id) DO UPDATE SET
    version = EXCLUDED.version,
    winner = EXCLUDED.winner,
    action_count = EXCLUDED.action_count,
    replay = EXCLUDED.replay,
    created_at = EXCLUDED.created_at`,
		rec.GameID, rec.Version, string(rec.Winner), rec.ActionCount, data, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save replay %s: %w", rec.GameID, err)
	}
	return nil
}

// GetReplay returns the archived replay for gameID.
func (s *PostgresStore) GetReplay(ctx context.Context, gameID uuid.UUID) (ReplayRecord, error) {
	if s == nil || s.pool == nil {
		return ReplayRecord{}, fmt.Errorf("storage is not configured")
	}
	row := s.pool.QueryRow(ctx, `
SELECT game_id, version, winner, action_count, replay, created_at
FROM replays WHERE game_id = $1`, gameID)
	rec, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReplayRecord{}, ErrNotFound
	}
	if err != nil {
		return ReplayRecord{}, fmt.Errorf("get replay %s: %w", gameID, err)
	}
	return rec, nil
}

// ListReplays returns the most recent replays first.
func (s *PostgresStore) ListReplays(ctx context.Context, limit int) ([]ReplayRecord, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.pool.Query(ctx, `
SELECT game_id, version, winner, action_count, replay, created_at
FROM replays ORDER BY created_at DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	defer rows.Close()

	var out []ReplayRecord
	for rows.Next() {
		rec, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("scan replay: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	return out, nil
}

func scanPostgres(row pgx.Row) (ReplayRecord, error) {
	var (
		rec    ReplayRecord
		winner string
		data   []byte
	)
	if err := row.Scan(&rec.GameID, &rec.Version, &winner, &rec.ActionCount, &data, &rec.CreatedAt); err != nil {
		return ReplayRecord{}, err
	}
	r, err := decodeReplay(data)
	if err != nil {
		return ReplayRecord{}, err
	}
	rec.Winner = engine.Player(winner)
	rec.Replay = r
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}
