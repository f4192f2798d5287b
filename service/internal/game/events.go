package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
)

// GameEventType represents the type of a game-related event broadcast via WebSockets.
type GameEventType string

const (
	EventPlayerJoined     GameEventType = "player_joined"      // Public: a seat was filled.
	EventGameStart        GameEventType = "game_start"         // Public: INIT was recorded.
	EventGameAction       GameEventType = "game_action"        // Public: an action was applied.
	EventGameHistory      GameEventType = "game_history"       // Public: undo, redo or replay import moved the log.
	EventPrivateSyncState GameEventType = "private_sync_state" // Private: full state for one seat.
	EventPrivateToast     GameEventType = "private_toast"      // Private: the move was legal in form but refused.
	EventPrivateError     GameEventType = "private_error"      // Private: the request was rejected.
	EventGameEnd          GameEventType = "game_end"           // Public: a winner was decided.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type     GameEventType     `json:"type"`
	User     *EventUser        `json:"user,omitempty"`
	Seat     engine.Player     `json:"seat,omitempty"`
	Action   *engine.Envelope  `json:"action,omitempty"`
	Feedback []engine.Feedback `json:"feedback,omitempty"`
	Message  string            `json:"message,omitempty"`

	Payload map[string]any `json:"payload,omitempty"`

	State *ObfGameState `json:"state,omitempty"`
}
