package engine

import "fmt"

// takeGems takes 1 to 3 gems from the board and ends the turn. Taking two
// pearls or three gems of one colour hands the opponent a privilege.
func (s *GameState) takeGems(a TakeGems) error {
	if err := s.requireMode(ModeIdle); err != nil {
		return err
	}
	if len(a.Coords) == 0 {
		return fmt.Errorf("TAKE_GEMS without coordinates")
	}
	seen := make(map[Coord]bool, len(a.Coords))
	for _, c := range a.Coords {
		if !c.InBounds() {
			return fmt.Errorf("coordinate %v is off the board", c)
		}
		if seen[c] {
			return fmt.Errorf("coordinate %v selected twice", c)
		}
		seen[c] = true
	}
	if len(a.Coords) > 3 {
		s.toast("You can take at most 3 gems.")
		return nil
	}
	for _, c := range a.Coords {
		switch s.Board.At(c).Type {
		case GemEmpty:
			s.toast("That space is empty.")
			return nil
		case GemGold:
			s.toast("Gold can only be taken by reserving a card.")
			return nil
		}
	}

	p := s.Turn
	taken := make(map[GemColor]int, len(a.Coords))
	for _, c := range a.Coords {
		taken[s.takeFromBoard(p, c)]++
	}
	greedy := taken[GemPearl] >= 2
	for _, color := range BasicColors {
		if taken[color] >= 3 {
			greedy = true
		}
	}
	if greedy {
		s.grantPrivilege(p.Opponent())
	}
	s.completeTurn(p.Opponent())
	return nil
}

// replenish refills every empty cell from the bag in spiral order. It does
// not end the turn. Refilling a board that still holds gems hands the
// opponent a privilege.
func (s *GameState) replenish(a Replenish) error {
	if err := s.requireMode(ModeIdle); err != nil {
		return err
	}
	if len(s.Bag) == 0 {
		s.toast("The bag is empty.")
		return nil
	}
	if s.Board.Count(GemEmpty) == 0 {
		s.toast("The board is already full.")
		return nil
	}

	p := s.Turn
	hadGems := s.Board.Gems() > 0
	var picks []int
	if a.Randoms != nil {
		picks = a.Randoms.BagPicks
	}
	drawn := 0
	for _, c := range SpiralOrder {
		if len(s.Bag) == 0 {
			break
		}
		cell := s.Board.At(c)
		if cell.Type != GemEmpty {
			continue
		}
		idx := 0
		if drawn < len(picks) {
			idx = abs(picks[drawn]) % len(s.Bag)
		}
		*cell = s.Bag[idx]
		s.Bag = append(s.Bag[:idx:idx], s.Bag[idx+1:]...)
		drawn++
	}
	if hadGems {
		s.grantPrivilege(p.Opponent())
	}

	pb := s.PlayerBuffs.Of(p)
	st, ok := pb.State.(ReplenishState)
	if !ok {
		return nil
	}
	st.Count++
	pb.State = st
	e := pb.Buff.Effects
	if e.ReplenishBonusGem {
		var want GemColor
		if a.Randoms != nil {
			want = a.Randoms.BonusColor
		}
		if color, ok := s.drawAnyBasic(want); ok {
			(*s.Inventories.Of(p))[color]++
			s.feedback(p, FeedbackBuff, "bonus "+string(color))
		}
	}
	if e.StealEvery > 0 && st.Count%e.StealEvery == 0 && s.stealable(p.Opponent()) {
		s.queue(Step{Kind: StepSteal, Player: p}, Step{Kind: StepIdle, Player: p})
		s.resume()
	}
	return nil
}

// drawAnyBasic draws want from the bag, or the first basic colour found in
// the bag when want is unset or missing.
func (s *GameState) drawAnyBasic(want GemColor) (GemColor, bool) {
	if want.IsBasic() && s.drawFromBag(want) {
		return want, true
	}
	for _, cell := range s.Bag {
		if cell.Type.IsBasic() {
			color := cell.Type
			s.drawFromBag(color)
			return color, true
		}
	}
	return "", false
}

// takeBonusGem resolves a BONUS_GEM ability.
func (s *GameState) takeBonusGem(a TakeBonusGem) error {
	if err := s.requireMode(ModeBonusAction); err != nil {
		return err
	}
	c := Coord{a.R, a.C}
	if !c.InBounds() {
		return fmt.Errorf("coordinate %v is off the board", c)
	}
	if s.Board.At(c).Type != s.BonusGemTarget {
		s.toast(fmt.Sprintf("Pick a %s gem.", s.BonusGemTarget))
		return nil
	}
	color := s.takeFromBoard(s.Turn, c)
	s.feedback(s.Turn, FeedbackGem, "bonus "+string(color))
	s.resume()
	return nil
}

// discardGem returns one gem to the bag. The sub-phase holds until the
// player is back under the cap.
func (s *GameState) discardGem(a DiscardGem) error {
	if err := s.requireMode(ModeDiscardExcessGems); err != nil {
		return err
	}
	if !a.GemColor.IsToken() {
		return fmt.Errorf("DISCARD_GEM with colour %q", a.GemColor)
	}
	p := s.Turn
	if s.Inventories.Get(p)[a.GemColor] <= 0 {
		s.toast(fmt.Sprintf("You have no %s gems.", a.GemColor))
		return nil
	}
	s.returnToBag(p, a.GemColor, 1)
	if !HasExcessGems(s, p) {
		s.resume()
	}
	return nil
}

// stealGem resolves a STEAL ability.
func (s *GameState) stealGem(a StealGem) error {
	if err := s.requireMode(ModeStealAction); err != nil {
		return err
	}
	if !a.GemID.IsToken() {
		return fmt.Errorf("STEAL_GEM with colour %q", a.GemID)
	}
	if !a.GemID.Takeable() {
		s.toast("Gold cannot be stolen.")
		return nil
	}
	p := s.Turn
	opp := p.Opponent()
	if s.Inventories.Get(opp)[a.GemID] <= 0 {
		s.toast(fmt.Sprintf("Your opponent has no %s gems.", a.GemID))
		return nil
	}
	(*s.Inventories.Of(opp))[a.GemID]--
	(*s.Inventories.Of(p))[a.GemID]++
	s.feedback(p, FeedbackSteal, string(a.GemID))
	s.resume()
	return nil
}
