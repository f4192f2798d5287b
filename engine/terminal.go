package engine

// FinalizeTurn ends the acting player's move and decides what happens next.
//
// Checks run in order and the first match returns:
//  1. periodic buff upkeep for next
//  2. win conditions (acting player first), terminal
//  3. royal milestone at 3 and 6 crowns, enters SELECT_ROYAL
//  4. gem cap, enters DISCARD_EXCESS_GEMS (snapshot counts if non-nil)
//  5. advance to next and return to IDLE
func (s *GameState) FinalizeTurn(next Player, snapshot Inventory) {
	s.finalize(next, snapshot, false)
}

// finalize is FinalizeTurn with upkeep suppressed when the same turn end is
// being re-evaluated after a royal pick or a discard.
func (s *GameState) finalize(next Player, snapshot Inventory, resumed bool) {
	acting := s.Turn
	if !resumed {
		s.buffUpkeep(next)
	}

	for _, p := range [2]Player{acting, acting.Opponent()} {
		if hasWon(s, p) {
			s.Winner = p
			s.Mode = ModeIdle
			s.Continuations = nil
			return
		}
	}

	if len(s.RoyalDeck) > 0 {
		crowns := CrownCount(s, acting)
		ms := s.RoyalMilestone.Of(acting)
		switch {
		case crowns >= FirstRoyalCrowns && !ms.Three:
			ms.Three = true
			s.suspend(ModeSelectRoyal, next)
			return
		case crowns >= SecondRoyalCrowns && !ms.Six:
			ms.Six = true
			s.suspend(ModeSelectRoyal, next)
			return
		}
	}

	held := s.Inventories.Get(acting)
	if snapshot != nil {
		held = snapshot
	}
	if held.Total() > GemCap(s, acting) {
		s.suspend(ModeDiscardExcessGems, next)
		return
	}

	s.Turn = next
	s.Mode = ModeIdle
}

// suspend enters a sub-phase without advancing the turn; the turn end is
// re-evaluated once the sub-phase resolves.
func (s *GameState) suspend(mode GameMode, next Player) {
	s.Mode = mode
	s.queue(Step{Kind: StepFinalize, Next: next, Resumed: true})
}

// buffUpkeep advances periodic buff counters for the player about to move.
func (s *GameState) buffUpkeep(next Player) {
	pb := s.PlayerBuffs.Of(next)
	st, ok := pb.State.(PeriodicPrivilegeState)
	every := pb.Buff.Effects.PrivilegeEvery
	if !ok || every <= 0 {
		return
	}
	st.Turns++
	if st.Turns >= every {
		st.Turns = 0
		if !st.Ready {
			st.Ready = true
			s.feedback(next, FeedbackBuff, "special privilege ready")
		}
	}
	pb.State = st
}
