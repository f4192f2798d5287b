package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/service/internal/database/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteStore archives replays in a local SQLite file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens the database at path and applies embedded migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveReplay inserts or replaces the replay for rec.GameID.
func (s *SQLiteStore) SaveReplay(ctx context.Context, rec ReplayRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := validateRecord(rec); err != nil {
		return err
	}
	data, err := encodeReplay(rec.Replay)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO replays (game_id, version, winner, action_count, replay, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (game_id) DO UPDATE SET
    version = excluded.version,
    winner = excluded.winner,
    action_count = excluded.action_count,
    replay = excluded.replay,
    created_at = excluded.created_at`,
		rec.GameID.String(), rec.Version, string(rec.Winner), rec.ActionCount, string(data), rec.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save replay %s: %w", rec.GameID, err)
	}
	return nil
}

// GetReplay returns the archived replay for gameID.
func (s *SQLiteStore) GetReplay(ctx context.Context, gameID uuid.UUID) (ReplayRecord, error) {
	if err := ctx.Err(); err != nil {
		return ReplayRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return ReplayRecord{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT game_id, version, winner, action_count, replay, created_at
FROM replays WHERE game_id = ?`, gameID.String())
	rec, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ReplayRecord{}, ErrNotFound
	}
	if err != nil {
		return ReplayRecord{}, fmt.Errorf("get replay %s: %w", gameID, err)
	}
	return rec, nil
}

// ListReplays returns the most recent replays first.
func (s *SQLiteStore) ListReplays(ctx context.Context, limit int) ([]ReplayRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT game_id, version, winner, action_count, replay, created_at
FROM replays ORDER BY created_at DESC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	defer rows.Close()

	var out []ReplayRecord
	for rows.Next() {
		rec, err := scanSQLite(rows)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (ReplayRecord, error) {
	var (
		rec       ReplayRecord
		id        string
		winner    string
		data      string
		createdAt int64
	)
	if err := row.Scan(&id, &rec.Version, &winner, &rec.ActionCount, &data, &createdAt); err != nil {
		return ReplayRecord{}, err
	}
	gameID, err := uuid.Parse(id)
	if err != nil {
		return ReplayRecord{}, fmt.Errorf("parse game id %q: %w", id, err)
	}
	r, err := decodeReplay([]byte(data))
	if err != nil {
		return ReplayRecord{}, err
	}
	rec.GameID = gameID
	rec.Winner = engine.Player(winner)
	rec.Replay = r
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return rec, nil
}
