package engine

import "testing"

// ---------------------------------------------------------------------------
// Win conditions
// ---------------------------------------------------------------------------

func TestFinalizeWinByPoints(t *testing.T) {
	_, s := newTestGame(t)
	s.ExtraPoints.P1 = DefaultPoints
	s.FinalizeTurn(P2, nil)
	if s.Winner != P1 {
		t.Fatalf("Winner = %q, want p1", s.Winner)
	}
	if !s.IsTerminal() || s.Mode != ModeIdle || len(s.Continuations) != 0 {
		t.Errorf("terminal state: mode %s, continuations %v", s.Mode, s.Continuations)
	}
}

func TestFinalizeChecksActingPlayerFirst(t *testing.T) {
	_, s := newTestGame(t)
	s.Turn = P2
	s.ExtraPoints.P1 = DefaultPoints
	s.ExtraPoints.P2 = DefaultPoints
	s.FinalizeTurn(P1, nil)
	if s.Winner != P2 {
		t.Errorf("Winner = %q, want the acting player p2", s.Winner)
	}
}

func TestFinalizeOpponentCanWin(t *testing.T) {
	_, s := newTestGame(t)
	s.ExtraCrowns.P2 = DefaultCrowns
	s.FinalizeTurn(P2, nil)
	if s.Winner != P2 {
		t.Errorf("Winner = %q, want p2", s.Winner)
	}
}

func TestFinalizeColorWin(t *testing.T) {
	_, s := newTestGame(t)
	s.PlayerTableau.P1 = []Card{
		card("a", 3, nil, GemBlue, 5),
		card("b", 3, nil, GemBlue, 5),
	}
	s.FinalizeTurn(P2, nil)
	if s.Winner != P1 {
		t.Fatalf("Winner = %q, want p1 by colour points", s.Winner)
	}

	_, s = newTestGame(t)
	s.PlayerTableau.P1 = []Card{
		card("a", 3, nil, GemBlue, 5),
		card("b", 3, nil, GemBlue, 5),
	}
	s.PlayerBuffs.P1 = withBuff("seeker")
	s.FinalizeTurn(P2, nil)
	if s.Winner != "" {
		t.Errorf("Winner = %q with colour win disabled", s.Winner)
	}
}

func TestGoalsFollowBuff(t *testing.T) {
	_, s := newTestGame(t)
	s.PlayerBuffs.P1 = withBuff("seeker")
	g := Goals(s, P1)
	if g.Crowns != 8 || g.ColorWin || g.Points != DefaultPoints {
		t.Errorf("Goals = %+v", g)
	}
	s.ExtraCrowns.P1 = 8
	s.FinalizeTurn(P2, nil)
	if s.Winner != P1 {
		t.Errorf("Winner = %q, want p1 at 8 crowns", s.Winner)
	}
}

// ---------------------------------------------------------------------------
// Royal milestones
// ---------------------------------------------------------------------------

func TestFinalizeRoyalMilestone(t *testing.T) {
	e, s := newTestGame(t)
	s.ExtraCrowns.P1 = FirstRoyalCrowns
	s.FinalizeTurn(P2, nil)
	if s.Mode != ModeSelectRoyal {
		t.Fatalf("Mode = %s, want SELECT_ROYAL", s.Mode)
	}
	if s.Turn != P1 {
		t.Errorf("Turn = %s, want p1 during the royal pick", s.Turn)
	}
	if !s.RoyalMilestone.P1.Three || s.RoyalMilestone.P1.Six {
		t.Errorf("milestones = %+v", s.RoyalMilestone.P1)
	}
	if got := s.NextPlayerAfterRoyal(); got != P2 {
		t.Errorf("NextPlayerAfterRoyal = %q, want p2", got)
	}

	s = mustApply(t, e, s, SelectRoyalCard{Card: Card{ID: "royal-a"}})
	if s.Turn != P2 || s.Mode != ModeIdle {
		t.Errorf("after pick: turn %s mode %s, want p2 IDLE", s.Turn, s.Mode)
	}
	if len(s.PlayerRoyals.P1) != 1 || len(s.RoyalDeck) != 2 {
		t.Errorf("royals %d, pool %d", len(s.PlayerRoyals.P1), len(s.RoyalDeck))
	}
	if got := PlayerScore(s, P1); got != 3 {
		t.Errorf("score = %d, want 3", got)
	}
}

func TestFinalizeSecondMilestone(t *testing.T) {
	_, s := newTestGame(t)
	s.RoyalMilestone.P1.Three = true
	s.ExtraCrowns.P1 = SecondRoyalCrowns - 1
	s.FinalizeTurn(P2, nil)
	if s.Mode != ModeIdle || s.Turn != P2 {
		t.Fatalf("5 crowns: mode %s turn %s", s.Mode, s.Turn)
	}

	s.Turn = P1
	s.ExtraCrowns.P1 = SecondRoyalCrowns
	s.FinalizeTurn(P2, nil)
	if s.Mode != ModeSelectRoyal || !s.RoyalMilestone.P1.Six {
		t.Errorf("6 crowns: mode %s milestones %+v", s.Mode, s.RoyalMilestone.P1)
	}
}

func TestFinalizeMilestoneSkippedWithoutRoyals(t *testing.T) {
	_, s := newTestGame(t)
	s.RoyalDeck = nil
	s.ExtraCrowns.P1 = FirstRoyalCrowns
	s.FinalizeTurn(P2, nil)
	if s.Mode != ModeIdle || s.Turn != P2 {
		t.Errorf("mode %s turn %s, want IDLE p2", s.Mode, s.Turn)
	}
}

// ---------------------------------------------------------------------------
// Gem cap
// ---------------------------------------------------------------------------

func TestFinalizeGemCap(t *testing.T) {
	_, s := newTestGame(t)
	s.Inventories.P1[GemBlue] = DefaultGemCap + 1
	s.FinalizeTurn(P2, nil)
	if s.Mode != ModeDiscardExcessGems || s.Turn != P1 {
		t.Errorf("mode %s turn %s, want DISCARD_EXCESS_GEMS p1", s.Mode, s.Turn)
	}
}

func TestFinalizeBuffRaisesGemCap(t *testing.T) {
	_, s := newTestGame(t)
	s.PlayerBuffs.P1 = withBuff("hoarder")
	s.Inventories.P1[GemBlue] = DefaultGemCap + 1
	s.FinalizeTurn(P2, nil)
	if s.Mode != ModeIdle || s.Turn != P2 {
		t.Errorf("mode %s turn %s, want IDLE p2", s.Mode, s.Turn)
	}
}

func TestFinalizeUsesSnapshot(t *testing.T) {
	_, s := newTestGame(t)
	snap := NewInventory()
	snap[GemRed] = DefaultGemCap + 2
	s.FinalizeTurn(P2, snap)
	if s.Mode != ModeDiscardExcessGems {
		t.Errorf("mode %s, want DISCARD_EXCESS_GEMS from snapshot", s.Mode)
	}
}

func TestDiscardResumesWithoutUpkeep(t *testing.T) {
	e, s := newTestGame(t)
	s.PlayerBuffs.P2 = withBuff("envoy")
	s.Inventories.P1[GemBlue] = DefaultGemCap
	s.Bag = s.Bag[:len(s.Bag)-DefaultGemCap]

	s = mustApply(t, e, s, TakeGems{Coords: coords(4, 0)})
	if s.Mode != ModeDiscardExcessGems || s.Turn != P1 {
		t.Fatalf("mode %s turn %s, want discard by p1", s.Mode, s.Turn)
	}
	if st := s.PlayerBuffs.P2.State.(PeriodicPrivilegeState); st.Turns != 1 {
		t.Fatalf("upkeep turns = %d, want 1", st.Turns)
	}

	s = mustApply(t, e, s, DiscardGem{GemColor: GemBlue})
	if s.Mode != ModeIdle || s.Turn != P2 {
		t.Errorf("after discard: mode %s turn %s", s.Mode, s.Turn)
	}
	if st := s.PlayerBuffs.P2.State.(PeriodicPrivilegeState); st.Turns != 1 {
		t.Errorf("upkeep ran twice: turns = %d", st.Turns)
	}
}

// ---------------------------------------------------------------------------
// Upkeep
// ---------------------------------------------------------------------------

func TestPeriodicPrivilegeUpkeep(t *testing.T) {
	_, s := newTestGame(t)
	s.PlayerBuffs.P2 = withBuff("envoy")
	s.FinalizeTurn(P2, nil)
	if s.PlayerBuffs.P2.SpecialPrivilege() {
		t.Fatal("special privilege ready after one turn")
	}
	s.FinalizeTurn(P2, nil)
	if !s.PlayerBuffs.P2.SpecialPrivilege() {
		t.Error("special privilege not ready after two turns")
	}
}
