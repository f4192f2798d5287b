// Package agent implements the heuristic AI opponent.
//
// ComputeAction is a pure function of the game state. It resolves pending
// sub-phases first and otherwise follows a card-economy-first priority list;
// it does not search or model the opponent.
package agent

import (
	"github.com/jason-s-yu/gemduel/engine"
)

// JokerColor is the colour the agent assigns to joker cards.
const JokerColor = engine.GemBlue

// ReplenishBelow is the board gem count at or under which the agent prefers
// replenishing to taking gems.
const ReplenishBelow = 6

// ReserveShortfall is the most gold a card may be short by for the agent to
// consider it worth reserving.
const ReserveShortfall = 3

// ComputeAction returns the agent's action for the player to move, or nil
// when it has nothing legal to do.
func ComputeAction(s *engine.GameState) engine.Action {
	if s == nil || s.IsTerminal() {
		return nil
	}
	switch s.Mode {
	case engine.ModeDraft:
		return draftPick(s)
	case engine.ModeSelectRoyal:
		return royalPick(s)
	case engine.ModeDiscardExcessGems:
		return discard(s)
	case engine.ModeStealAction:
		return stealPick(s)
	case engine.ModeBonusAction:
		return bonusPick(s)
	case engine.ModeSelectCardColor:
		return jokerColor(s)
	case engine.ModeReserveWaitingGem:
		return reserveGold(s)
	case engine.ModePrivilegeAction:
		return privilegePick(s)
	case engine.ModeIdle:
		return idle(s)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Sub-phases
// ---------------------------------------------------------------------------

func draftPick(s *engine.GameState) engine.Action {
	if s.Draft == nil || len(s.Draft.Pool) == 0 {
		return nil
	}
	return engine.SelectBuff{BuffID: s.Draft.Pool[0]}
}

func royalPick(s *engine.GameState) engine.Action {
	if len(s.RoyalDeck) == 0 {
		return nil
	}
	best := s.RoyalDeck[0]
	for _, c := range s.RoyalDeck[1:] {
		if c.Points > best.Points {
			best = c
		}
	}
	return engine.SelectRoyalCard{Card: best}
}

// discard drops the most-held basic colour, then pearls, then gold.
func discard(s *engine.GameState) engine.Action {
	inv := s.Inventories.Get(s.Turn)
	var best engine.GemColor
	for _, c := range engine.BasicColors {
		if inv[c] > 0 && (best == "" || inv[c] > inv[best]) {
			best = c
		}
	}
	if best == "" {
		for _, c := range []engine.GemColor{engine.GemPearl, engine.GemGold} {
			if inv[c] > 0 {
				best = c
				break
			}
		}
	}
	if best == "" {
		return nil
	}
	return engine.DiscardGem{GemColor: best}
}

func stealPick(s *engine.GameState) engine.Action {
	opp := s.Inventories.Get(s.Turn.Opponent())
	for _, c := range engine.TokenColors {
		if c.Takeable() && opp[c] > 0 {
			return engine.StealGem{GemID: c}
		}
	}
	return nil
}

func bonusPick(s *engine.GameState) engine.Action {
	if c, ok := findCell(s, func(t engine.GemColor) bool { return t == s.BonusGemTarget }); ok {
		return engine.TakeBonusGem{R: c.R, C: c.C}
	}
	return nil
}

func jokerColor(s *engine.GameState) engine.Action {
	if s.PendingBuy == nil {
		return nil
	}
	card := s.PendingBuy.Card
	card.BonusColor = JokerColor
	return engine.BuyCard{Card: card, Source: s.PendingBuy.Source, MarketInfo: s.PendingBuy.MarketInfo}
}

func reserveGold(s *engine.GameState) engine.Action {
	pr := s.PendingReserve
	if pr == nil {
		return engine.CancelReserve{}
	}
	var gold *engine.Coord
	if c, ok := findCell(s, func(t engine.GemColor) bool { return t == engine.GemGold }); ok {
		gold = &c
	}
	if pr.FromDeck {
		return engine.ReserveDeck{Level: pr.Level, GoldCoords: gold}
	}
	if pr.Card == nil {
		return engine.CancelReserve{}
	}
	return engine.ReserveCard{Card: *pr.Card, Level: pr.Level, Idx: pr.Idx, GoldCoords: gold}
}

func privilegePick(s *engine.GameState) engine.Action {
	if c, ok := findCell(s, engine.GemColor.Takeable); ok {
		return engine.UsePrivilege{R: c.R, C: c.C}
	}
	return engine.CancelPrivilege{}
}

// findCell returns the first cell in spiral order whose gem matches.
func findCell(s *engine.GameState, match func(engine.GemColor) bool) (engine.Coord, bool) {
	for _, c := range engine.SpiralOrder {
		if match(s.Board.At(c).Type) {
			return c, true
		}
	}
	return engine.Coord{}, false
}
