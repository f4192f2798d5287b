// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/agent"
	"github.com/jason-s-yu/gemduel/engine/history"
	"github.com/jason-s-yu/gemduel/engine/setup"
	"github.com/jason-s-yu/gemduel/service/internal/cache"
	"github.com/jason-s-yu/gemduel/service/internal/database"
	"github.com/sirupsen/logrus"
)

// DefaultReplayVersion stamps exported replays when no version is configured.
const DefaultReplayVersion = "1.0.0"

// maxAIChain bounds how many AI actions may run back to back without a human
// action in between.
const maxAIChain = 1000

// publishTimeout bounds each historian or archive write.
const publishTimeout = 2 * time.Second

var (
	ErrGameFull        = errors.New("game is full")
	ErrNotStarted      = errors.New("game has not started")
	ErrAlreadyStarted  = errors.New("game already started")
	ErrGameOver        = errors.New("game is over")
	ErrNotSeated       = errors.New("player is not seated in this game")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrForbiddenAction = errors.New("action not allowed from clients")
	ErrActionRejected  = errors.New("action rejected")
	ErrUndoDisabled    = errors.New("undo is disabled for this game")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
	ErrInvalidReplay   = errors.New("replay does not start a game")
)

// OnGameEndFunc is executed when a game ends. winner is uuid.Nil when the
// winning seat is unknown.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, scores map[engine.Player]int)

// Publisher receives every recorded action and the final replay.
// *cache.Historian satisfies it.
type Publisher interface {
	PublishGameAction(ctx context.Context, rec cache.GameActionRecord) error
	SaveReplay(ctx context.Context, gameID uuid.UUID, r history.Replay) error
}

// ReplayArchive stores finished games. database.Store satisfies it.
type ReplayArchive interface {
	SaveReplay(ctx context.Context, rec database.ReplayRecord) error
}

// Rules are the per-game options chosen at creation.
type Rules struct {
	Draft     bool          `json:"draft"`     // Start with the buff draft.
	AllowUndo bool          `json:"allowUndo"` // Accept undo and redo requests.
	Debug     bool          `json:"debug"`     // Accept DEBUG_* actions.
	AIDelay   time.Duration `json:"-"`         // Pause before each AI action; zero runs inline.
}

// Seat is one of the two player slots.
type Seat struct {
	PlayerID  uuid.UUID `json:"playerId"`
	AI        bool      `json:"ai"`
	Connected bool      `json:"connected"`
}

// Seats lists the engine players in seating order.
var Seats = [...]engine.Player{engine.P1, engine.P2}

// DuelGame is one hosted game. The authoritative state is the fold of its
// action log; every client action is randomised by the generator, reduced by
// the engine and then fanned out to both seats.
type DuelGame struct {
	ID    uuid.UUID
	Rules Rules

	seats map[engine.Player]*Seat

	gen  *setup.Generator
	hist *history.Log

	started     bool
	over        bool
	actionIndex int
	aiTimer     *time.Timer
	aiGen       int
	aiChain     int

	Mu sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	Historian     Publisher
	Archive       ReplayArchive
	ReplayVersion string

	pending sync.WaitGroup
	now     func() time.Time
	logger  logrus.FieldLogger
}

// NewDuelGame creates a game that reduces through eng and draws randomness
// from gen.
func NewDuelGame(eng *engine.Engine, gen *setup.Generator, rules Rules) *DuelGame {
	id, _ := uuid.NewRandom()
	return &DuelGame{
		ID:            id,
		Rules:         rules,
		seats:         make(map[engine.Player]*Seat, len(Seats)),
		gen:           gen,
		hist:          history.NewLog(eng),
		ReplayVersion: DefaultReplayVersion,
		now:           time.Now,
		logger:        logrus.WithField("game", id),
	}
}

// ---------------------------------------------------------------------------
// Seating
// ---------------------------------------------------------------------------

// AddPlayer seats playerID in the first free seat. A player already seated
// gets the same seat back.
// Assumes lock is held by the caller.
func (g *DuelGame) AddPlayer(playerID uuid.UUID) (engine.Player, error) {
	if seat, ok := g.SeatOf(playerID); ok {
		g.seats[seat].Connected = true
		return seat, nil
	}
	return g.seat(&Seat{PlayerID: playerID, Connected: true})
}

// AddAI seats the heuristic agent in the first free seat.
// Assumes lock is held by the caller.
func (g *DuelGame) AddAI() (engine.Player, error) {
	return g.seat(&Seat{PlayerID: uuid.New(), AI: true, Connected: true})
}

func (g *DuelGame) seat(s *Seat) (engine.Player, error) {
	for _, p := range Seats {
		if g.seats[p] == nil {
			g.seats[p] = s
			g.logger.Infof("Game %s: %s seated as %s (ai=%v).", g.ID, s.PlayerID, p, s.AI)
			g.fireEvent(GameEvent{Type: EventPlayerJoined, User: &EventUser{ID: s.PlayerID}, Seat: p})
			return p, nil
		}
	}
	return "", ErrGameFull
}

// SeatOf returns the seat held by playerID.
func (g *DuelGame) SeatOf(playerID uuid.UUID) (engine.Player, bool) {
	for _, p := range Seats {
		if s := g.seats[p]; s != nil && s.PlayerID == playerID {
			return p, true
		}
	}
	return "", false
}

// Seat returns a copy of the seat, or nil when it is empty.
func (g *DuelGame) Seat(p engine.Player) *Seat {
	s := g.seats[p]
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// SetConnected records whether playerID's connection is live.
// Assumes lock is held by the caller.
func (g *DuelGame) SetConnected(playerID uuid.UUID, connected bool) {
	if seat, ok := g.SeatOf(playerID); ok {
		g.seats[seat].Connected = connected
	}
}

// Full reports whether both seats are taken.
func (g *DuelGame) Full() bool { return g.seats[engine.P1] != nil && g.seats[engine.P2] != nil }

// Started reports whether INIT has been recorded.
func (g *DuelGame) Started() bool { return g.started }

// Over reports whether the game has ended.
func (g *DuelGame) Over() bool { return g.over }

// State returns the current folded state, or nil before Start.
func (g *DuelGame) State() *engine.GameState { return g.hist.State() }

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Start records INIT (or INIT_DRAFT) and hands the first move to its seat.
// Assumes lock is held by the caller.
func (g *DuelGame) Start() error {
	if g.started {
		return ErrAlreadyStarted
	}
	if !g.Full() {
		return fmt.Errorf("start game %s: both seats must be filled", g.ID)
	}
	var first engine.Action = g.gen.Init()
	if g.Rules.Draft {
		first = g.gen.InitDraft()
	}
	next := g.hist.Record(first)
	g.started = true
	g.logger.Infof("Game %s: Started (draft=%v).", g.ID, g.Rules.Draft)

	env, err := engine.MarshalAction(first)
	if err == nil {
		g.logAction(uuid.Nil, "", env)
	}
	g.fireEvent(GameEvent{Type: EventGameStart, Seat: next.Turn})
	g.broadcastSync()
	g.scheduleAI()
	return nil
}

// HandleAction decodes env, fills in its randomness and applies it for
// playerID. Failures are also reported to the player privately.
// Assumes lock is held by the caller.
func (g *DuelGame) HandleAction(playerID uuid.UUID, env engine.Envelope) error {
	if g.over {
		return g.fail(playerID, ErrGameOver)
	}
	if !g.started {
		return g.fail(playerID, ErrNotStarted)
	}
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return g.fail(playerID, ErrNotSeated)
	}
	a, err := engine.UnmarshalAction(env)
	if err != nil {
		return g.fail(playerID, fmt.Errorf("%w: %v", ErrActionRejected, err))
	}
	switch a.(type) {
	case engine.Init, engine.InitDraft, engine.Unknown:
		return g.fail(playerID, fmt.Errorf("%w: %s", ErrForbiddenAction, env.Type))
	case engine.DebugAddCrowns, engine.DebugAddPoints, engine.DebugAddPrivilege:
		if !g.Rules.Debug {
			return g.fail(playerID, fmt.Errorf("%w: %s", ErrForbiddenAction, env.Type))
		}
	}
	state := g.hist.State()
	if _, closing := a.(engine.CloseModal); !closing && seat != state.Turn {
		g.logger.Debugf("Game %s: Action %s from %s ignored (not their turn).", g.ID, env.Type, playerID)
		return g.fail(playerID, ErrNotYourTurn)
	}

	a = g.gen.Fill(state, a)
	next, ok := g.hist.TryRecord(a)
	if !ok {
		return g.fail(playerID, fmt.Errorf("%w: %s", ErrActionRejected, env.Type))
	}
	g.aiChain = 0
	if next.ToastMessage != "" {
		g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateToast, Message: next.ToastMessage})
	}
	if !g.afterAction(playerID, seat, a, next) {
		g.scheduleAI()
	}
	return nil
}

// afterAction publishes an applied action and reports whether it ended the
// game.
func (g *DuelGame) afterAction(actor uuid.UUID, seat engine.Player, a engine.Action, next *engine.GameState) bool {
	env, err := engine.MarshalAction(a)
	if err != nil {
		g.logger.Errorf("Game %s: Failed encoding applied action %s: %v", g.ID, a.Tag(), err)
	} else {
		g.logAction(actor, seat, env)
		g.fireEvent(GameEvent{
			Type:     EventGameAction,
			User:     &EventUser{ID: actor},
			Seat:     seat,
			Action:   &env,
			Feedback: next.LastFeedback,
		})
	}
	g.broadcastSync()
	if next.IsTerminal() {
		g.endGame()
		return true
	}
	return false
}

// endGame stops the AI, announces the result and archives the replay.
func (g *DuelGame) endGame() {
	if g.over {
		return
	}
	g.over = true
	g.stopAI()

	s := g.hist.State()
	scores := make(map[engine.Player]int, len(Seats))
	for _, p := range Seats {
		scores[p] = engine.PlayerScore(s, p)
	}
	winnerID := uuid.Nil
	if seat := g.seats[s.Winner]; seat != nil {
		winnerID = seat.PlayerID
	}
	g.logger.Infof("Game %s: Ending game. Winner %s (%s), scores %v.", g.ID, s.Winner, winnerID, scores)

	g.fireEvent(GameEvent{
		Type:    EventGameEnd,
		Seat:    s.Winner,
		User:    &EventUser{ID: winnerID},
		Payload: map[string]any{"scores": scores, "winnerId": winnerID},
	})
	g.archiveReplay(s.Winner)

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winnerID, scores)
	}
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

// Undo steps the log back one action. In games against the AI it keeps
// stepping back until a human seat is to move.
// Assumes lock is held by the caller.
func (g *DuelGame) Undo(playerID uuid.UUID) error {
	if err := g.checkHistory(playerID); err != nil {
		return err
	}
	// INIT is never undone.
	if g.hist.Cursor() <= 1 {
		return g.fail(playerID, ErrNothingToUndo)
	}
	g.stopAI()
	g.hist.Undo()
	for g.hist.Cursor() > 1 && g.aiToMove() {
		g.hist.Undo()
	}
	g.afterHistory(playerID, "UNDO")
	return nil
}

// Redo reapplies the next undone action, along with any AI actions that
// follow it.
// Assumes lock is held by the caller.
func (g *DuelGame) Redo(playerID uuid.UUID) error {
	if err := g.checkHistory(playerID); err != nil {
		return err
	}
	if !g.hist.CanRedo() {
		return g.fail(playerID, ErrNothingToRedo)
	}
	g.stopAI()
	g.hist.Redo()
	for g.hist.CanRedo() && g.aiToMove() {
		g.hist.Redo()
	}
	g.afterHistory(playerID, "REDO")
	return nil
}

func (g *DuelGame) checkHistory(playerID uuid.UUID) error {
	if !g.Rules.AllowUndo {
		return g.fail(playerID, ErrUndoDisabled)
	}
	if !g.started {
		return g.fail(playerID, ErrNotStarted)
	}
	if g.over {
		return g.fail(playerID, ErrGameOver)
	}
	if _, ok := g.SeatOf(playerID); !ok {
		return g.fail(playerID, ErrNotSeated)
	}
	return nil
}

// ImportReplay replaces the whole log with the replay's history.
// Assumes lock is held by the caller.
func (g *DuelGame) ImportReplay(r history.Replay) error {
	actions := r.Actions()
	if len(actions) == 0 {
		return ErrInvalidReplay
	}
	switch actions[0].(type) {
	case engine.Init, engine.InitDraft:
	default:
		return ErrInvalidReplay
	}
	g.stopAI()
	g.hist.ImportHistory(actions)
	g.started = true
	g.over = false
	g.logger.Infof("Game %s: Imported replay with %d actions.", g.ID, len(actions))
	g.afterHistory(uuid.Nil, "IMPORT")
	return nil
}

func (g *DuelGame) afterHistory(actor uuid.UUID, op string) {
	seat, _ := g.SeatOf(actor)
	g.logAction(actor, seat, engine.Envelope{Type: op})
	g.fireEvent(GameEvent{
		Type:    EventGameHistory,
		User:    &EventUser{ID: actor},
		Seat:    seat,
		Message: op,
		Payload: map[string]any{"cursor": g.hist.Cursor(), "length": g.hist.Len()},
	})
	g.broadcastSync()
	if g.hist.State().IsTerminal() {
		g.endGame()
		return
	}
	g.aiChain = 0
	g.scheduleAI()
}

// Replay exports the applied prefix of the log.
// Assumes lock is held by the caller.
func (g *DuelGame) Replay() (history.Replay, error) {
	return g.hist.Export(g.ReplayVersion, g.now())
}

// Wait blocks until background publishes have finished.
func (g *DuelGame) Wait() { g.pending.Wait() }

// ---------------------------------------------------------------------------
// AI
// ---------------------------------------------------------------------------

func (g *DuelGame) aiToMove() bool {
	s := g.hist.State()
	if s == nil || s.IsTerminal() {
		return false
	}
	seat := g.seats[s.Turn]
	return seat != nil && seat.AI
}

// scheduleAI queues the agent's next move when an AI seat is to act.
func (g *DuelGame) scheduleAI() {
	if g.over || !g.started || !g.aiToMove() {
		return
	}
	if g.Rules.AIDelay <= 0 {
		g.runAI()
		return
	}
	g.stopAI()
	gen := g.aiGen
	g.aiTimer = time.AfterFunc(g.Rules.AIDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if gen != g.aiGen || g.over {
			return
		}
		g.aiTimer = nil
		g.runAI()
	})
}

// stopAI cancels any pending AI move.
func (g *DuelGame) stopAI() {
	g.aiGen++
	if g.aiTimer != nil {
		g.aiTimer.Stop()
		g.aiTimer = nil
	}
}

// runAI applies one agent action and schedules the next if the AI is still
// to move.
func (g *DuelGame) runAI() {
	if g.aiChain >= maxAIChain {
		g.logger.Warnf("Game %s: AI chain limit reached, pausing.", g.ID)
		return
	}
	g.aiChain++

	s := g.hist.State()
	seat := g.seats[s.Turn]
	a := agent.ComputeAction(s)
	if a == nil {
		g.logger.Warnf("Game %s: AI (%s) has no action in mode %s.", g.ID, s.Turn, s.Mode)
		return
	}
	a = g.gen.Fill(s, a)
	next, ok := g.hist.TryRecord(a)
	if !ok {
		g.logger.Warnf("Game %s: AI (%s) action %s rejected in mode %s.", g.ID, s.Turn, a.Tag(), s.Mode)
		return
	}
	if g.afterAction(seat.PlayerID, s.Turn, a, next) {
		return
	}
	if next.ToastMessage != "" {
		g.logger.Warnf("Game %s: AI (%s) action %s refused: %s", g.ID, s.Turn, a.Tag(), next.ToastMessage)
		return
	}
	g.scheduleAI()
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func (g *DuelGame) fail(playerID uuid.UUID, err error) error {
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateError, Message: err.Error()})
	return err
}

func (g *DuelGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

func (g *DuelGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil && playerID != uuid.Nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// broadcastSync sends each human seat its view of the current state.
func (g *DuelGame) broadcastSync() {
	for _, p := range Seats {
		seat := g.seats[p]
		if seat == nil || seat.AI {
			continue
		}
		obf := g.SyncState(p)
		g.fireEventToPlayer(seat.PlayerID, GameEvent{Type: EventPrivateSyncState, Seat: p, State: &obf})
	}
}

// logAction publishes one log entry to the historian in the background.
func (g *DuelGame) logAction(actor uuid.UUID, seat engine.Player, env engine.Envelope) {
	g.actionIndex++
	if g.Historian == nil {
		return
	}
	rec := cache.GameActionRecord{
		GameID:      g.ID,
		ActionIndex: g.actionIndex,
		ActorUserID: actor,
		Seat:        seat,
		Action:      env,
		Timestamp:   g.now().UnixMilli(),
	}
	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := g.Historian.PublishGameAction(ctx, rec); err != nil {
			g.logger.Errorf("Game %s: Failed publishing action %d ('%s'): %v", g.ID, rec.ActionIndex, rec.Action.Type, err)
		}
	}()
}

// archiveReplay stores the finished game in the cache and the archive.
func (g *DuelGame) archiveReplay(winner engine.Player) {
	if g.Historian == nil && g.Archive == nil {
		return
	}
	r, err := g.Replay()
	if err != nil {
		g.logger.Errorf("Game %s: Failed exporting replay: %v", g.ID, err)
		return
	}
	rec := database.ReplayRecord{
		GameID:      g.ID,
		Version:     r.Version,
		Winner:      winner,
		ActionCount: len(r.History),
		Replay:      r,
		CreatedAt:   r.Timestamp,
	}
	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if g.Historian != nil {
			if err := g.Historian.SaveReplay(ctx, g.ID, r); err != nil {
				g.logger.Errorf("Game %s: Failed caching replay: %v", g.ID, err)
			}
		}
		if g.Archive != nil {
			if err := g.Archive.SaveReplay(ctx, rec); err != nil {
				g.logger.Errorf("Game %s: Failed archiving replay: %v", g.ID, err)
			}
		}
	}()
}
