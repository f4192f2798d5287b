// Package cache publishes game actions to Redis for the historian and keeps
// the latest replay of each game for reconnect catch-up.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/history"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no replay is cached for a game.
var ErrNotFound = errors.New("replay not cached")

// ReplayTTL is how long a cached replay outlives its last update.
const ReplayTTL = 24 * time.Hour

// GameActionRecord is one recorded action as published to the historian.
type GameActionRecord struct {
	GameID      uuid.UUID       `json:"gameId"`
	ActionIndex int             `json:"actionIndex"`
	ActorUserID uuid.UUID       `json:"actorUserId"`
	Seat        engine.Player   `json:"seat,omitempty"`
	Action      engine.Envelope `json:"action"`
	Timestamp   int64           `json:"timestamp"`
}

// ActionsKey is the stream holding a game's published actions.
func ActionsKey(gameID uuid.UUID) string { return "gemduel:game:" + gameID.String() + ":actions" }

// ReplayKey holds a game's latest replay document.
func ReplayKey(gameID uuid.UUID) string { return "gemduel:game:" + gameID.String() + ":replay" }

// Connect opens a Redis client and checks it responds.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// Historian writes to Redis. A nil Historian or one without a client
// silently drops writes.
type Historian struct {
	rdb *redis.Client
}

// NewHistorian wraps rdb.
func NewHistorian(rdb *redis.Client) *Historian { return &Historian{rdb: rdb} }

func (h *Historian) enabled() bool { return h != nil && h.rdb != nil }

// PublishGameAction appends rec to the game's action stream.
func (h *Historian) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if !h.enabled() {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	err = h.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: ActionsKey(rec.GameID),
		Values: map[string]any{
			"index":  rec.ActionIndex,
			"type":   rec.Action.Type,
			"record": data,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", ActionsKey(rec.GameID), err)
	}
	return nil
}

// SaveReplay stores the game's latest replay.
func (h *Historian) SaveReplay(ctx context.Context, gameID uuid.UUID, r history.Replay) error {
	if !h.enabled() {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal replay: %w", err)
	}
	if err := h.rdb.Set(ctx, ReplayKey(gameID), data, ReplayTTL).Err(); err != nil {
		return fmt.Errorf("set %s: %w", ReplayKey(gameID), err)
	}
	return nil
}

// LoadReplay returns the cached replay for gameID.
func (h *Historian) LoadReplay(ctx context.Context, gameID uuid.UUID) (history.Replay, error) {
	if !h.enabled() {
		return history.Replay{}, ErrNotFound
	}
	data, err := h.rdb.Get(ctx, ReplayKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return history.Replay{}, ErrNotFound
	}
	if err != nil {
		return history.Replay{}, fmt.Errorf("get %s: %w", ReplayKey(gameID), err)
	}
	var r history.Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return history.Replay{}, fmt.Errorf("decode cached replay: %w", err)
	}
	return r, nil
}

// ActionCount returns the length of the game's action stream.
func (h *Historian) ActionCount(ctx context.Context, gameID uuid.UUID) (int64, error) {
	if !h.enabled() {
		return 0, nil
	}
	n, err := h.rdb.XLen(ctx, ActionsKey(gameID)).Result()
	if err != nil {
		return 0, fmt.Errorf("xlen %s: %w", ActionsKey(gameID), err)
	}
	return n, nil
}
