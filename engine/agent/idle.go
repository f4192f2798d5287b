package agent

import "github.com/jason-s-yu/gemduel/engine"

// idle picks a primary action, in priority order: buy, replenish a sparse
// board, take the longest line that fits under the cap, reserve, replenish,
// then take any single gem.
func idle(s *engine.GameState) engine.Action {
	if a := bestPurchase(s); a != nil {
		return a
	}
	canReplenish := len(s.Bag) > 0 && s.Board.Count(engine.GemEmpty) > 0
	if canReplenish && s.Board.Gems() <= ReplenishBelow {
		return engine.Replenish{}
	}
	if a := longestLine(s); a != nil {
		return a
	}
	if a := reservation(s); a != nil {
		return a
	}
	if canReplenish {
		return engine.Replenish{}
	}
	if c, ok := findCell(s, engine.GemColor.Takeable); ok {
		return engine.TakeGems{Coords: []engine.Coord{c}}
	}
	return nil
}

type candidate struct {
	card   engine.Card
	source engine.CardSource
	slot   *engine.MarketRef
}

// candidates lists every card the player to move could try to buy.
func candidates(s *engine.GameState) []candidate {
	var out []candidate
	for lvl := 1; lvl <= 3; lvl++ {
		for i, c := range s.MarketRow(lvl) {
			if c != nil {
				out = append(out, candidate{card: *c, source: engine.SourceMarket, slot: &engine.MarketRef{Level: lvl, Idx: i}})
			}
		}
	}
	for _, c := range s.PlayerReserved.Get(s.Turn) {
		out = append(out, candidate{card: c, source: engine.SourceReserved})
	}
	return out
}

func quote(s *engine.GameState, c engine.Card) engine.Transaction {
	p := s.Turn
	return engine.CalculateTransaction(c, s.Inventories.Get(p), s.PlayerTableau.Get(p), s.PlayerBuffs.Get(p))
}

// bestPurchase buys the affordable card with the most points, ties broken
// by the higher level.
func bestPurchase(s *engine.GameState) engine.Action {
	var best *candidate
	for _, cand := range candidates(s) {
		if !quote(s, cand.card).Affordable {
			continue
		}
		if best == nil || cand.card.Points > best.card.Points ||
			(cand.card.Points == best.card.Points && cand.card.Level > best.card.Level) {
			c := cand
			best = &c
		}
	}
	if best == nil {
		return nil
	}
	if best.card.IsJoker() {
		return engine.InitiateBuyJoker{Card: best.card, Source: best.source, MarketInfo: best.slot}
	}
	return engine.BuyCard{Card: best.card, Source: best.source, MarketInfo: best.slot}
}

// longestLine takes the longest legal line that keeps the player at or under
// the gem cap.
func longestLine(s *engine.GameState) engine.Action {
	room := engine.GemCap(s, s.Turn) - engine.TotalGems(s, s.Turn)
	if room <= 0 {
		return nil
	}
	var best []engine.Coord
	for _, line := range engine.CandidateLines(&s.Board) {
		if len(line) <= room && len(line) > len(best) {
			best = line
		}
	}
	if best == nil {
		return nil
	}
	return engine.TakeGems{Coords: best}
}

// reservation reserves the first high-level market card within
// ReserveShortfall gold of being affordable, or failing that the first
// market card at all.
func reservation(s *engine.GameState) engine.Action {
	if len(s.PlayerReserved.Get(s.Turn)) >= engine.MaxReserved {
		return nil
	}
	gold := s.Inventories.Get(s.Turn)[engine.GemGold]
	var first engine.Action
	for lvl := 3; lvl >= 1; lvl-- {
		for i, c := range s.MarketRow(lvl) {
			if c == nil {
				continue
			}
			a := engine.InitiateReserve{Card: *c, Level: lvl, Idx: i}
			if first == nil {
				first = a
			}
			if quote(s, *c).GoldCost-gold <= ReserveShortfall {
				return a
			}
		}
	}
	return first
}
