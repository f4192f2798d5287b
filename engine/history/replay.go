package history

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jason-s-yu/gemduel/engine"
)

// Replay is the portable replay file.
type Replay struct {
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	History   []engine.Envelope `json:"history"`
}

// NewReplay encodes actions into a replay stamped with version and at.
func NewReplay(version string, at time.Time, actions []engine.Action) (Replay, error) {
	r := Replay{Version: version, Timestamp: at.UTC(), History: make([]engine.Envelope, 0, len(actions))}
	for i, a := range actions {
		env, err := engine.MarshalAction(a)
		if err != nil {
			return Replay{}, fmt.Errorf("action %d: %w", i, err)
		}
		r.History = append(r.History, env)
	}
	return r, nil
}

// Actions decodes the replay history. Unknown tags and entries whose payload
// fails to decode survive as engine.Unknown; the reducer logs and skips them,
// so one bad record never costs the rest of the replay.
func (r Replay) Actions() []engine.Action {
	out := make([]engine.Action, 0, len(r.History))
	for _, env := range r.History {
		a, err := engine.UnmarshalAction(env)
		if err != nil {
			a = engine.Unknown{Type: env.Type, Payload: env.Payload, Err: err}
		}
		out = append(out, a)
	}
	return out
}

// Encode writes r as indented JSON.
func Encode(w io.Writer, r Replay) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Decode reads a replay file.
func Decode(rd io.Reader) (Replay, error) {
	var r Replay
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return Replay{}, fmt.Errorf("decode replay: %w", err)
	}
	return r, nil
}

// Export captures the applied prefix of the log as a replay.
func (l *Log) Export(version string, at time.Time) (Replay, error) {
	return NewReplay(version, at, l.Actions())
}

// LoadReplay replaces the log with the replay's history.
func (l *Log) LoadReplay(r Replay) *engine.GameState {
	return l.ImportHistory(r.Actions())
}
