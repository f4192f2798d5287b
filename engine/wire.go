package engine

import (
	"encoding/json"
	"fmt"
)

// Action is one entry of the append-only action log. The set of variants is
// closed; Unknown carries tags this build does not recognise.
//
//sumtype:decl
type Action interface {
	Tag() string
	action()
}

// Action tags as they appear on the wire.
const (
	TagInit                = "INIT"
	TagInitDraft           = "INIT_DRAFT"
	TagSelectBuff          = "SELECT_BUFF"
	TagTakeGems            = "TAKE_GEMS"
	TagReplenish           = "REPLENISH"
	TagTakeBonusGem        = "TAKE_BONUS_GEM"
	TagDiscardGem          = "DISCARD_GEM"
	TagStealGem            = "STEAL_GEM"
	TagInitiateBuyJoker    = "INITIATE_BUY_JOKER"
	TagBuyCard             = "BUY_CARD"
	TagInitiateReserve     = "INITIATE_RESERVE"
	TagInitiateReserveDeck = "INITIATE_RESERVE_DECK"
	TagCancelReserve       = "CANCEL_RESERVE"
	TagReserveCard         = "RESERVE_CARD"
	TagReserveDeck         = "RESERVE_DECK"
	TagActivatePrivilege   = "ACTIVATE_PRIVILEGE"
	TagUsePrivilege        = "USE_PRIVILEGE"
	TagCancelPrivilege     = "CANCEL_PRIVILEGE"
	TagForceRoyalSelection = "FORCE_ROYAL_SELECTION"
	TagSelectRoyalCard     = "SELECT_ROYAL_CARD"
	TagDebugAddCrowns      = "DEBUG_ADD_CROWNS"
	TagDebugAddPoints      = "DEBUG_ADD_POINTS"
	TagDebugAddPrivilege   = "DEBUG_ADD_PRIVILEGE"
	TagPeekDeck            = "PEEK_DECK"
	TagCloseModal          = "CLOSE_MODAL"
)

// ---------------------------------------------------------------------------
// Variants
// ---------------------------------------------------------------------------

// Init starts a game without the buff draft.
type Init struct {
	Setup
}

// InitDraft starts a game with the buff draft. DraftPool lists the buff ids
// on offer.
type InitDraft struct {
	Setup
	DraftPool []string `json:"draftPool"`
}

// SelectBuff picks a buff during the draft. RandomColor feeds colour-discount
// buffs and InitRandoms the random starting gems.
type SelectBuff struct {
	BuffID      string     `json:"buffId"`
	RandomColor GemColor   `json:"randomColor,omitempty"`
	InitRandoms []GemColor `json:"initRandoms,omitempty"`
}

// TakeGems takes the gems at Coords.
type TakeGems struct {
	Coords []Coord `json:"coords"`
}

// ReplenishRandoms carries the bag draw order and the buff bonus colour.
type ReplenishRandoms struct {
	BagPicks   []int    `json:"bagPicks,omitempty"`
	BonusColor GemColor `json:"bonusColor,omitempty"`
}

// Replenish refills the board from the bag.
type Replenish struct {
	Randoms *ReplenishRandoms `json:"randoms,omitempty"`
}

// TakeBonusGem picks the ability-granted gem at (R, C).
type TakeBonusGem struct {
	R int `json:"r"`
	C int `json:"c"`
}

// DiscardGem returns one gem of GemColor to the bag.
type DiscardGem struct {
	GemColor GemColor `json:"gemColor"`
}

// StealGem takes one gem of the given colour from the opponent.
type StealGem struct {
	GemID GemColor `json:"gemId"`
}

// InitiateBuyJoker starts a joker purchase that needs a colour choice.
type InitiateBuyJoker struct {
	Card       Card       `json:"card"`
	Source     CardSource `json:"source"`
	MarketInfo *MarketRef `json:"marketInfo,omitempty"`
}

// BuyRandoms carries randomness used by purchase buffs.
type BuyRandoms struct {
	BonusColor GemColor `json:"bonusColor,omitempty"`
}

// BuyCard purchases Card. In SELECT_CARD_COLOR, Card.BonusColor is the
// chosen colour.
type BuyCard struct {
	Card       Card        `json:"card"`
	Source     CardSource  `json:"source"`
	MarketInfo *MarketRef  `json:"marketInfo,omitempty"`
	Randoms    *BuyRandoms `json:"randoms,omitempty"`
}

// InitiateReserve starts reserving a market card.
type InitiateReserve struct {
	Card  Card `json:"card"`
	Level int  `json:"level"`
	Idx   int  `json:"idx"`
}

// InitiateReserveDeck starts reserving the top card of a deck.
type InitiateReserveDeck struct {
	Level int `json:"level"`
}

type CancelReserve struct{}

// ReserveCard reserves a market card, optionally taking the gold at
// GoldCoords.
type ReserveCard struct {
	Card       Card   `json:"card"`
	Level      int    `json:"level"`
	Idx        int    `json:"idx"`
	GoldCoords *Coord `json:"goldCoords,omitempty"`
}

// ReserveDeck reserves the top card of a deck.
type ReserveDeck struct {
	Level      int    `json:"level"`
	GoldCoords *Coord `json:"goldCoords,omitempty"`
}

type ActivatePrivilege struct{}

// UsePrivilege takes the gem at (R, C) with a privilege.
type UsePrivilege struct {
	R int `json:"r"`
	C int `json:"c"`
}

type CancelPrivilege struct{}

type ForceRoyalSelection struct{}

// SelectRoyalCard claims a royal card from the pool.
type SelectRoyalCard struct {
	Card Card `json:"card"`
}

type DebugAddCrowns struct {
	Player Player `json:"player"`
}

type DebugAddPoints struct {
	Player Player `json:"player"`
}

type DebugAddPrivilege struct {
	Player Player `json:"player"`
}

// PeekDeck reveals the top cards of a deck in a modal.
type PeekDeck struct {
	Level int `json:"level"`
}

type CloseModal struct{}

// Unknown preserves an action whose tag is not recognised, or a recorded
// action whose payload no longer decodes. Err holds the decode failure in
// the second case.
type Unknown struct {
	Type    string
	Payload json.RawMessage
	Err     error
}

func (Init) Tag() string                { return TagInit }
func (InitDraft) Tag() string           { return TagInitDraft }
func (SelectBuff) Tag() string          { return TagSelectBuff }
func (TakeGems) Tag() string            { return TagTakeGems }
func (Replenish) Tag() string           { return TagReplenish }
func (TakeBonusGem) Tag() string        { return TagTakeBonusGem }
func (DiscardGem) Tag() string          { return TagDiscardGem }
func (StealGem) Tag() string            { return TagStealGem }
func (InitiateBuyJoker) Tag() string    { return TagInitiateBuyJoker }
func (BuyCard) Tag() string             { return TagBuyCard }
func (InitiateReserve) Tag() string     { return TagInitiateReserve }
func (InitiateReserveDeck) Tag() string { return TagInitiateReserveDeck }
func (CancelReserve) Tag() string       { return TagCancelReserve }
func (ReserveCard) Tag() string         { return TagReserveCard }
func (ReserveDeck) Tag() string         { return TagReserveDeck }
func (ActivatePrivilege) Tag() string   { return TagActivatePrivilege }
func (UsePrivilege) Tag() string        { return TagUsePrivilege }
func (CancelPrivilege) Tag() string     { return TagCancelPrivilege }
func (ForceRoyalSelection) Tag() string { return TagForceRoyalSelection }
func (SelectRoyalCard) Tag() string     { return TagSelectRoyalCard }
func (DebugAddCrowns) Tag() string      { return TagDebugAddCrowns }
func (DebugAddPoints) Tag() string      { return TagDebugAddPoints }
func (DebugAddPrivilege) Tag() string   { return TagDebugAddPrivilege }
func (PeekDeck) Tag() string            { return TagPeekDeck }
func (CloseModal) Tag() string          { return TagCloseModal }
func (u Unknown) Tag() string           { return u.Type }

func (Init) action()                {}
func (InitDraft) action()           {}
func (SelectBuff) action()          {}
func (TakeGems) action()            {}
func (Replenish) action()           {}
func (TakeBonusGem) action()        {}
func (DiscardGem) action()          {}
func (StealGem) action()            {}
func (InitiateBuyJoker) action()    {}
func (BuyCard) action()             {}
func (InitiateReserve) action()     {}
func (InitiateReserveDeck) action() {}
func (CancelReserve) action()       {}
func (ReserveCard) action()         {}
func (ReserveDeck) action()         {}
func (ActivatePrivilege) action()   {}
func (UsePrivilege) action()        {}
func (CancelPrivilege) action()     {}
func (ForceRoyalSelection) action() {}
func (SelectRoyalCard) action()     {}
func (DebugAddCrowns) action()      {}
func (DebugAddPoints) action()      {}
func (DebugAddPrivilege) action()   {}
func (PeekDeck) action()            {}
func (CloseModal) action()          {}
func (Unknown) action()             {}

// ---------------------------------------------------------------------------
// Envelope codec
// ---------------------------------------------------------------------------

// Envelope is the wire form of an action: {"type": ..., "payload": ...}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarshalAction wraps a into its envelope.
func MarshalAction(a Action) (Envelope, error) {
	if u, ok := a.(Unknown); ok {
		return Envelope{Type: u.Type, Payload: u.Payload}, nil
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", a.Tag(), err)
	}
	if string(payload) == "{}" {
		payload = nil
	}
	return Envelope{Type: a.Tag(), Payload: payload}, nil
}

// UnmarshalAction decodes an envelope. Unrecognised tags decode to Unknown
// without error; a payload that is not valid JSON for its tag is an error.
func UnmarshalAction(env Envelope) (Action, error) {
	dec, ok := decoders[env.Type]
	if !ok {
		return Unknown{Type: env.Type, Payload: env.Payload}, nil
	}
	a, err := dec(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return a, nil
}

func (e Envelope) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}

func decode[T Action](raw json.RawMessage) (Action, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var decoders = map[string]func(json.RawMessage) (Action, error){
	TagInit:                decode[Init],
	TagInitDraft:           decode[InitDraft],
	TagSelectBuff:          decode[SelectBuff],
	TagTakeGems:            decode[TakeGems],
	TagReplenish:           decode[Replenish],
	TagTakeBonusGem:        decode[TakeBonusGem],
	TagDiscardGem:          decode[DiscardGem],
	TagStealGem:            decode[StealGem],
	TagInitiateBuyJoker:    decode[InitiateBuyJoker],
	TagBuyCard:             decode[BuyCard],
	TagInitiateReserve:     decode[InitiateReserve],
	TagInitiateReserveDeck: decode[InitiateReserveDeck],
	TagCancelReserve:       decode[CancelReserve],
	TagReserveCard:         decode[ReserveCard],
	TagReserveDeck:         decode[ReserveDeck],
	TagActivatePrivilege:   decode[ActivatePrivilege],
	TagUsePrivilege:        decode[UsePrivilege],
	TagCancelPrivilege:     decode[CancelPrivilege],
	TagForceRoyalSelection: decode[ForceRoyalSelection],
	TagSelectRoyalCard:     decode[SelectRoyalCard],
	TagDebugAddCrowns:      decode[DebugAddCrowns],
	TagDebugAddPoints:      decode[DebugAddPoints],
	TagDebugAddPrivilege:   decode[DebugAddPrivilege],
	TagPeekDeck:            decode[PeekDeck],
	TagCloseModal:          decode[CloseModal],
}

// ---------------------------------------------------------------------------
// Buff state codec
// ---------------------------------------------------------------------------

type playerBuffJSON struct {
	Buff      Buff            `json:"buff"`
	StateKind string          `json:"stateKind"`
	State     json.RawMessage `json:"state,omitempty"`
}

// MarshalJSON tags the buff state with its kind.
func (pb PlayerBuff) MarshalJSON() ([]byte, error) {
	st := pb.State
	if st == nil {
		st = NoState{}
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	return json.Marshal(playerBuffJSON{Buff: pb.Buff, StateKind: st.Kind(), State: raw})
}

// UnmarshalJSON restores the buff state variant named by stateKind.
func (pb *PlayerBuff) UnmarshalJSON(data []byte) error {
	var w playerBuffJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	pb.Buff = w.Buff
	var err error
	switch w.StateKind {
	case ReplenishState{}.Kind():
		pb.State, err = decodeState[ReplenishState](w.State)
	case PeriodicPrivilegeState{}.Kind():
		pb.State, err = decodeState[PeriodicPrivilegeState](w.State)
	case ReserveState{}.Kind():
		pb.State, err = decodeState[ReserveState](w.State)
	case ColorDiscountState{}.Kind():
		pb.State, err = decodeState[ColorDiscountState](w.State)
	default:
		pb.State = NoState{}
	}
	return err
}

func decodeState[T BuffState](raw json.RawMessage) (BuffState, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
