// Package engine implements the Gem Duel rules.
//
// The engine is a pure reducer: Engine.Apply(state, action) returns the next
// state and never mutates its input. All randomness is carried in action
// payloads, so folding the same action log always yields the same state.
package engine

// GameState holds the complete state of a game. It is derived by folding the
// action log and must be treated as immutable by callers.
type GameState struct {
	Board          Board            `json:"board"`
	Bag            []Cell           `json:"bag"`
	Inventories    Pair[Inventory]  `json:"inventories"`
	Privileges     Pair[int]        `json:"privileges"`
	PlayerTableau  Pair[[]Card]     `json:"playerTableau"`
	PlayerReserved Pair[[]Card]     `json:"playerReserved"`
	Decks          [3][]Card        `json:"decks"`
	Market         [3][]*Card       `json:"market"`
	RoyalDeck      []Card           `json:"royalDeck"`
	PlayerRoyals   Pair[[]Card]     `json:"playerRoyals"`
	RoyalMilestone Pair[Milestones] `json:"royalMilestones"`
	PlayerBuffs    Pair[PlayerBuff] `json:"playerBuffs"`
	ExtraPoints    Pair[int]        `json:"extraPoints"`
	ExtraCrowns    Pair[int]        `json:"extraCrowns"`

	Turn   Player   `json:"turn"`
	Mode   GameMode `json:"gameMode"`
	Winner Player   `json:"winner,omitempty"`

	// Sub-phase data.
	PendingReserve    *PendingReserve `json:"pendingReserve,omitempty"`
	PendingBuy        *PendingBuy     `json:"pendingBuy,omitempty"`
	BonusGemTarget    GemColor        `json:"bonusGemTarget,omitempty"`
	PrivilegeGemCount int             `json:"privilegeGemCount,omitempty"`
	PrivilegeSpent    bool            `json:"privilegeSpent,omitempty"`
	Continuations     []Step          `json:"continuations,omitempty"`
	Draft             *Draft          `json:"draft,omitempty"`

	// Per-action signals, cleared on every dispatch.
	LastFeedback []Feedback `json:"lastFeedback,omitempty"`
	ToastMessage string     `json:"toastMessage,omitempty"`
	Modal        *DeckPeek  `json:"modal,omitempty"`

	// Seq counts applied actions; UIDSeq is the deterministic counter behind
	// every minted cell uid.
	Seq    uint64 `json:"seq"`
	UIDSeq uint64 `json:"uidSeq"`
}

// IsTerminal returns true once a winner has been decided.
func (s *GameState) IsTerminal() bool { return s.Winner != "" }

// ActingPlayer returns the player who must supply the next action.
func (s *GameState) ActingPlayer() Player { return s.Turn }

// NextPlayerAfterRoyal returns the player who will move once the pending
// royal pick resolves, or "" when no royal pick is pending.
func (s *GameState) NextPlayerAfterRoyal() Player {
	if s.Mode != ModeSelectRoyal {
		return ""
	}
	for _, st := range s.Continuations {
		if st.Kind == StepFinalize {
			return st.Next
		}
	}
	return ""
}

// MarketRow returns the visible row for level 1..3.
func (s *GameState) MarketRow(level int) []*Card { return s.Market[level-1] }

// Deck returns the draw pile for level 1..3.
func (s *GameState) Deck(level int) []Card { return s.Decks[level-1] }

// ---------------------------------------------------------------------------
// Genesis
// ---------------------------------------------------------------------------

// newGameState builds the genesis state from a generator setup.
func newGameState(setup Setup) *GameState {
	s := &GameState{
		Board:     setup.Board,
		Bag:       append([]Cell(nil), setup.Bag...),
		RoyalDeck: append([]Card(nil), setup.RoyalDeck...),
		Turn:      P1,
		Mode:      ModeIdle,
	}
	for i := range s.Board {
		for j := range s.Board[i] {
			if s.Board[i][j].Type == "" {
				s.Board[i][j].Type = GemEmpty
			}
		}
	}
	for lvl := 0; lvl < 3; lvl++ {
		s.Decks[lvl] = append([]Card(nil), setup.Decks[lvl]...)
		row := make([]*Card, MarketSizes[lvl])
		for i := range row {
			if i < len(setup.Market[lvl]) && setup.Market[lvl][i] != nil {
				c := *setup.Market[lvl][i]
				row[i] = &c
			}
		}
		s.Market[lvl] = row
	}
	for _, p := range [2]Player{P1, P2} {
		*s.Inventories.Of(p) = NewInventory()
		*s.PlayerBuffs.Of(p) = neutralBuff()
	}
	return s
}

// ---------------------------------------------------------------------------
// Copy-on-write
// ---------------------------------------------------------------------------

// Clone returns a deep copy that can be mutated without affecting s.
// Cards are immutable and shared by value; market slots get fresh pointers.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.Bag = append([]Cell(nil), s.Bag...)
	c.RoyalDeck = append([]Card(nil), s.RoyalDeck...)
	for _, p := range [2]Player{P1, P2} {
		*c.Inventories.Of(p) = s.Inventories.Get(p).Clone()
		*c.PlayerTableau.Of(p) = append([]Card(nil), s.PlayerTableau.Get(p)...)
		*c.PlayerReserved.Of(p) = append([]Card(nil), s.PlayerReserved.Get(p)...)
		*c.PlayerRoyals.Of(p) = append([]Card(nil), s.PlayerRoyals.Get(p)...)
	}
	for lvl := 0; lvl < 3; lvl++ {
		c.Decks[lvl] = append([]Card(nil), s.Decks[lvl]...)
		if s.Market[lvl] != nil {
			row := make([]*Card, len(s.Market[lvl]))
			for i, card := range s.Market[lvl] {
				if card != nil {
					cp := *card
					row[i] = &cp
				}
			}
			c.Market[lvl] = row
		}
	}
	if s.PendingReserve != nil {
		pr := *s.PendingReserve
		c.PendingReserve = &pr
	}
	if s.PendingBuy != nil {
		pb := *s.PendingBuy
		if pb.MarketInfo != nil {
			mi := *pb.MarketInfo
			pb.MarketInfo = &mi
		}
		c.PendingBuy = &pb
	}
	c.Continuations = append([]Step(nil), s.Continuations...)
	if s.Draft != nil {
		d := Draft{Pool: append([]string(nil), s.Draft.Pool...)}
		d.InitRandoms.P1 = append([]GemColor(nil), s.Draft.InitRandoms.P1...)
		d.InitRandoms.P2 = append([]GemColor(nil), s.Draft.InitRandoms.P2...)
		c.Draft = &d
	}
	c.LastFeedback = append([]Feedback(nil), s.LastFeedback...)
	if s.Modal != nil {
		m := DeckPeek{Level: s.Modal.Level, Cards: append([]Card(nil), s.Modal.Cards...)}
		c.Modal = &m
	}
	return &c
}
