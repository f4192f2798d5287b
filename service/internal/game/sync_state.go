// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
)

// ObfPlayerState is one seat's public holdings. Reserved cards are revealed
// only to their owner.
type ObfPlayerState struct {
	Seat          engine.Player     `json:"seat"`
	PlayerID      uuid.UUID         `json:"playerId"`
	AI            bool              `json:"ai"`
	Connected     bool              `json:"connected"`
	IsCurrentTurn bool              `json:"isCurrentTurn"`
	Score         int               `json:"score"`
	Crowns        int               `json:"crowns"`
	Goals         engine.WinGoals   `json:"goals"`
	GemCap        int               `json:"gemCap"`
	Gems          engine.Inventory  `json:"gems"`
	Privileges    int               `json:"privileges"`
	Tableau       []engine.Card     `json:"tableau"`
	Royals        []engine.Card     `json:"royals"`
	ReservedCount int               `json:"reservedCount"`
	Reserved      []engine.Card     `json:"reserved,omitempty"`
	Buff          engine.PlayerBuff `json:"buff"`
}

// ObfGameState is the game as one seat may see it: deck order and bag
// contents are reduced to counts.
type ObfGameState struct {
	GameID   uuid.UUID       `json:"gameId"`
	Viewer   engine.Player   `json:"viewer"`
	Started  bool            `json:"started"`
	GameOver bool            `json:"gameOver"`
	Seq      uint64          `json:"seq"`
	Turn     engine.Player   `json:"turn"`
	Mode     engine.GameMode `json:"gameMode"`
	Winner   engine.Player   `json:"winner,omitempty"`

	Board     engine.Board           `json:"board"`
	BagSize   int                    `json:"bagSize"`
	DeckSizes [3]int                 `json:"deckSizes"`
	Market    [3][]*engine.Card      `json:"market"`
	RoyalDeck []engine.Card          `json:"royalDeck"`
	Players   []ObfPlayerState       `json:"players"`
	Draft     *engine.Draft          `json:"draft,omitempty"`
	Modal     *engine.DeckPeek       `json:"modal,omitempty"`
	Pending   *engine.PendingReserve `json:"pendingReserve,omitempty"`
	Buying    *engine.PendingBuy     `json:"pendingBuy,omitempty"`
	Bonus     engine.GemColor        `json:"bonusGemTarget,omitempty"`
	PrivLeft  int                    `json:"privilegeGemCount,omitempty"`
	Feedback  []engine.Feedback      `json:"lastFeedback,omitempty"`
	History   HistoryCursor          `json:"history"`
	Rules     Rules                  `json:"rules"`
}

// HistoryCursor tells clients whether undo and redo are available.
type HistoryCursor struct {
	Cursor  int  `json:"cursor"`
	Length  int  `json:"length"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// SyncState builds the view of the current state for viewer. Peeked deck
// cards are shown only to the player to move.
// Assumes lock is held by the caller.
func (g *DuelGame) SyncState(viewer engine.Player) ObfGameState {
	obf := ObfGameState{
		GameID:   g.ID,
		Viewer:   viewer,
		Started:  g.started,
		GameOver: g.over,
		Rules:    g.Rules,
		History: HistoryCursor{
			Cursor:  g.hist.Cursor(),
			Length:  g.hist.Len(),
			CanUndo: g.Rules.AllowUndo && !g.over && g.hist.Cursor() > 1,
			CanRedo: g.Rules.AllowUndo && !g.over && g.hist.CanRedo(),
		},
	}
	s := g.hist.State()
	if s == nil {
		for _, p := range Seats {
			if seat := g.seats[p]; seat != nil {
				obf.Players = append(obf.Players, ObfPlayerState{Seat: p, PlayerID: seat.PlayerID, AI: seat.AI, Connected: seat.Connected})
			}
		}
		return obf
	}

	obf.Seq = s.Seq
	obf.Turn = s.Turn
	obf.Mode = s.Mode
	obf.Winner = s.Winner
	obf.Board = s.Board
	obf.BagSize = len(s.Bag)
	for lvl := 1; lvl <= 3; lvl++ {
		obf.DeckSizes[lvl-1] = len(s.Deck(lvl))
	}
	obf.Market = s.Market
	obf.RoyalDeck = s.RoyalDeck
	obf.Draft = s.Draft
	obf.Pending = s.PendingReserve
	obf.Buying = s.PendingBuy
	obf.Bonus = s.BonusGemTarget
	obf.PrivLeft = s.PrivilegeGemCount
	obf.Feedback = s.LastFeedback
	if viewer == s.Turn {
		obf.Modal = s.Modal
	}

	for _, p := range Seats {
		ps := ObfPlayerState{
			Seat:          p,
			IsCurrentTurn: p == s.Turn && !s.IsTerminal(),
			Score:         engine.PlayerScore(s, p),
			Crowns:        engine.CrownCount(s, p),
			Goals:         engine.Goals(s, p),
			GemCap:        engine.GemCap(s, p),
			Gems:          s.Inventories.Get(p),
			Privileges:    s.Privileges.Get(p),
			Tableau:       s.PlayerTableau.Get(p),
			Royals:        s.PlayerRoyals.Get(p),
			ReservedCount: len(s.PlayerReserved.Get(p)),
			Buff:          s.PlayerBuffs.Get(p),
		}
		if seat := g.seats[p]; seat != nil {
			ps.PlayerID = seat.PlayerID
			ps.AI = seat.AI
			ps.Connected = seat.Connected
		}
		if p == viewer {
			ps.Reserved = s.PlayerReserved.Get(p)
		}
		obf.Players = append(obf.Players, ps)
	}
	return obf
}
