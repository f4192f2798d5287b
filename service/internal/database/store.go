// Package database archives finished games as replays.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/history"
)

// ErrNotFound is returned when no replay is archived under an id.
var ErrNotFound = errors.New("replay not found")

// DefaultListLimit caps ListReplays when the caller passes no limit.
const DefaultListLimit = 50

// ReplayRecord is one archived game.
type ReplayRecord struct {
	GameID      uuid.UUID      `json:"gameId"`
	Version     string         `json:"version"`
	Winner      engine.Player  `json:"winner,omitempty"`
	ActionCount int            `json:"actionCount"`
	Replay      history.Replay `json:"replay"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Store is the replay archive.
type Store interface {
	SaveReplay(ctx context.Context, rec ReplayRecord) error
	GetReplay(ctx context.Context, gameID uuid.UUID) (ReplayRecord, error)
	ListReplays(ctx context.Context, limit int) ([]ReplayRecord, error)
	Close() error
}

// Open picks the backend: Postgres when databaseURL is set, SQLite when
// sqlitePath is set, and no archive (nil, nil) otherwise.
func Open(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	switch {
	case databaseURL != "":
		s, err := OpenPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case sqlitePath != "":
		s, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, nil
}

func validateRecord(rec ReplayRecord) error {
	if rec.GameID == uuid.Nil {
		return fmt.Errorf("game id is required")
	}
	if rec.Version == "" {
		return fmt.Errorf("replay version is required")
	}
	return nil
}

func encodeReplay(r history.Replay) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal replay: %w", err)
	}
	return data, nil
}

func decodeReplay(data []byte) (history.Replay, error) {
	var r history.Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return history.Replay{}, fmt.Errorf("unmarshal replay: %w", err)
	}
	return r, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
