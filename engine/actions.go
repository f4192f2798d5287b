package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Engine applies actions to game states. It holds only immutable
// configuration and is safe for concurrent use.
type Engine struct {
	buffs BuffLookup
	log   logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for protocol anomalies.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an engine resolving buffs against the given catalog.
func New(buffs BuffLookup, opts ...Option) *Engine {
	e := &Engine{buffs: buffs, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the state that results from applying a to s. The input is
// never mutated. Malformed or out-of-phase actions are logged and leave the
// state unchanged; illegal but well-formed moves set ToastMessage instead.
func (e *Engine) Apply(s *GameState, a Action) *GameState {
	if a == nil {
		e.log.Warn("Apply called with nil action, ignoring.")
		return s
	}

	// INIT and INIT_DRAFT always start over from genesis.
	switch act := a.(type) {
	case Init:
		return e.genesis(act.Setup, false, nil)
	case InitDraft:
		return e.genesis(act.Setup, true, act.DraftPool)
	}
	if s == nil {
		e.log.WithField("action", a.Tag()).Warn("Action before INIT, ignoring.")
		return nil
	}

	if s.IsTerminal() {
		if _, ok := a.(CloseModal); !ok {
			return s
		}
	}

	next := s.Clone()
	next.LastFeedback = nil
	next.ToastMessage = ""
	next.Seq++

	if err := e.dispatch(next, a); err != nil {
		e.log.WithFields(logrus.Fields{
			"action": a.Tag(),
			"seq":    s.Seq,
			"mode":   s.Mode,
			"turn":   s.Turn,
		}).Warnf("Game action rejected: %v", err)
		return s
	}
	return next
}

// dispatch routes a to its handler.
func (e *Engine) dispatch(s *GameState, a Action) error {
	switch act := a.(type) {
	case SelectBuff:
		return e.selectBuff(s, act)
	case TakeGems:
		return s.takeGems(act)
	case Replenish:
		return s.replenish(act)
	case TakeBonusGem:
		return s.takeBonusGem(act)
	case DiscardGem:
		return s.discardGem(act)
	case StealGem:
		return s.stealGem(act)
	case InitiateBuyJoker:
		return s.initiateBuyJoker(act)
	case BuyCard:
		return s.buyCard(act)
	case InitiateReserve:
		return s.initiateReserve(act)
	case InitiateReserveDeck:
		return s.initiateReserveDeck(act)
	case CancelReserve:
		return s.cancelReserve()
	case ReserveCard:
		return s.reserveCard(act)
	case ReserveDeck:
		return s.reserveDeck(act)
	case ActivatePrivilege:
		return s.activatePrivilege()
	case UsePrivilege:
		return s.usePrivilege(act)
	case CancelPrivilege:
		return s.cancelPrivilege()
	case ForceRoyalSelection:
		return s.forceRoyalSelection()
	case SelectRoyalCard:
		return s.selectRoyalCard(act)
	case DebugAddCrowns:
		return s.debugAddCrowns(act.Player)
	case DebugAddPoints:
		return s.debugAddPoints(act.Player)
	case DebugAddPrivilege:
		return s.debugAddPrivilege(act.Player)
	case PeekDeck:
		return s.peekDeck(act.Level)
	case CloseModal:
		s.Modal = nil
		return nil
	case Unknown:
		if act.Err != nil {
			return fmt.Errorf("malformed %s payload: %w", act.Type, act.Err)
		}
		return fmt.Errorf("unrecognised action tag %q", act.Type)
	case Init, InitDraft:
		return fmt.Errorf("%s handled before dispatch", a.Tag())
	default:
		return fmt.Errorf("unhandled action %T", a)
	}
}

// requireMode fails unless the state is in one of the given modes.
func (s *GameState) requireMode(modes ...GameMode) error {
	for _, m := range modes {
		if s.Mode == m {
			return nil
		}
	}
	return fmt.Errorf("action not valid in mode %s", s.Mode)
}
