package engine

import (
	"encoding/json"
	"testing"
)

// ---------------------------------------------------------------------------
// Genesis
// ---------------------------------------------------------------------------

func TestInitGenesis(t *testing.T) {
	_, s := newTestGame(t)
	if s.Seq != 1 || s.Turn != P1 || s.Mode != ModeIdle {
		t.Fatalf("genesis seq %d turn %s mode %s", s.Seq, s.Turn, s.Mode)
	}
	for lvl, want := range MarketSizes {
		if got := len(s.MarketRow(lvl + 1)); got != want {
			t.Errorf("level %d market has %d slots, want %d", lvl+1, got, want)
		}
	}
	if s.Privileges.P1 != 0 || s.Privileges.P2 != 0 {
		t.Errorf("privileges = %+v, want none", s.Privileges)
	}
	if s.PlayerBuffs.P1.Buff.ID != NoBuffID {
		t.Errorf("buff = %q, want the neutral buff", s.PlayerBuffs.P1.Buff.ID)
	}
	checkConserved(t, s)
}

func TestInitRestartsFromAnyState(t *testing.T) {
	e, s := newTestGame(t)
	s = mustApply(t, e, s, TakeGems{Coords: coords(0, 0)})
	s = e.Apply(s, Init{Setup: testSetup()})
	if s.Seq != 1 || s.Turn != P1 || s.Inventories.P1.Total() != 0 {
		t.Errorf("INIT did not reset: seq %d turn %s", s.Seq, s.Turn)
	}
}

// ---------------------------------------------------------------------------
// Reducer contract
// ---------------------------------------------------------------------------

func TestApplyBeforeInit(t *testing.T) {
	e := newTestEngine()
	if s := e.Apply(nil, TakeGems{Coords: coords(0, 0)}); s != nil {
		t.Errorf("Apply(nil, TAKE_GEMS) = %+v, want nil", s)
	}
}

func TestApplyNilAction(t *testing.T) {
	e, s := newTestGame(t)
	if next := e.Apply(s, nil); next != s {
		t.Error("nil action changed the state")
	}
}

func TestApplyUnknownIsNoOp(t *testing.T) {
	e, s := newTestGame(t)
	mustReject(t, e, s, Unknown{Type: "SHUFFLE_EVERYTHING"})

	bad := json.RawMessage(`{"coords":"oops"}`)
	var decodeErr error
	if _, decodeErr = UnmarshalAction(Envelope{Type: "TAKE_GEMS", Payload: bad}); decodeErr == nil {
		t.Fatal("malformed TAKE_GEMS payload decoded")
	}
	mustReject(t, e, s, Unknown{Type: "TAKE_GEMS", Payload: bad, Err: decodeErr})
}

func TestApplyOutOfPhaseIsNoOp(t *testing.T) {
	e, s := newTestGame(t)
	mustReject(t, e, s, DiscardGem{GemColor: GemBlue})
	mustReject(t, e, s, StealGem{GemID: GemBlue})
	mustReject(t, e, s, SelectRoyalCard{Card: Card{ID: "royal-a"}})
	mustReject(t, e, s, SelectBuff{BuffID: "hoarder"})
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	e, s := newTestGame(t)
	actions := []Action{
		TakeGems{Coords: coords(0, 0, 0, 1, 0, 2)},
		buyMarket(s, 1, 0),
		Replenish{Randoms: &ReplenishRandoms{BagPicks: []int{3, 1, 4}}},
		InitiateReserve{Card: *s.Market[2][0], Level: 3, Idx: 0},
	}
	for _, a := range actions {
		before, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		next := e.Apply(s, a)
		after, _ := json.Marshal(s)
		if string(before) != string(after) {
			t.Fatalf("%s mutated its input", a.Tag())
		}
		s = next
	}
}

func TestApplyIncrementsSeq(t *testing.T) {
	e, s := newTestGame(t)
	s = mustApply(t, e, s, TakeGems{Coords: coords(0, 0)})
	if s.Seq != 2 {
		t.Errorf("Seq = %d, want 2", s.Seq)
	}
	s = mustToast(t, e, s, TakeGems{Coords: coords(1, 4)})
	if s.Seq != 3 {
		t.Errorf("Seq after toast = %d, want 3", s.Seq)
	}
}

func TestApplyClearsTransientSignals(t *testing.T) {
	e, s := newTestGame(t)
	s = mustApply(t, e, s, TakeGems{Coords: coords(0, 0, 0, 1, 0, 2)})
	if len(s.LastFeedback) == 0 {
		t.Fatal("no feedback for the privilege grant")
	}
	s = mustToast(t, e, s, TakeGems{Coords: coords(1, 4)})
	if len(s.LastFeedback) != 0 {
		t.Errorf("feedback carried over: %v", s.LastFeedback)
	}
	s = mustApply(t, e, s, TakeGems{Coords: coords(4, 4)})
	if s.ToastMessage != "" {
		t.Errorf("toast carried over: %q", s.ToastMessage)
	}
}

func TestTerminalStateIgnoresActions(t *testing.T) {
	e, s := newTestGame(t)
	s = mustApply(t, e, s, PeekDeck{Level: 1})
	s.Winner = P1
	mustReject(t, e, s, TakeGems{Coords: coords(0, 0)})
	mustReject(t, e, s, DebugAddPoints{Player: P2})
	next := mustApply(t, e, s, CloseModal{})
	if next.Modal != nil {
		t.Error("CLOSE_MODAL kept the modal")
	}
}

// ---------------------------------------------------------------------------
// End-to-end
// ---------------------------------------------------------------------------

func TestGreedyTakeThenAgainCard(t *testing.T) {
	e, s := newTestGame(t)

	s = mustApply(t, e, s, TakeGems{Coords: coords(0, 0, 0, 1, 0, 2)})
	if s.Privileges.P2 != 1 || s.Privileges.P1 != 0 {
		t.Fatalf("privileges = %+v, want p2 holding 1", s.Privileges)
	}
	if s.Turn != P2 || s.Mode != ModeIdle {
		t.Fatalf("turn %s mode %s, want p2 IDLE", s.Turn, s.Mode)
	}
	if s.Inventories.P1[GemBlue] != 3 {
		t.Errorf("p1 blue = %d, want 3", s.Inventories.P1[GemBlue])
	}

	s = mustApply(t, e, s, buyMarket(s, 1, 0))
	if s.Turn != P2 {
		t.Errorf("turn = %s after AGAIN, want p2", s.Turn)
	}
	if s.Privileges.P2 != 1 || s.Privileges.P1 != 0 {
		t.Errorf("privileges = %+v after AGAIN, want unchanged", s.Privileges)
	}
	if got := PlayerScore(s, P2); got != 1 {
		t.Errorf("p2 score = %d, want 1", got)
	}
	if s.Market[0][0] == nil || s.Market[0][0].ID != "d1-a" {
		t.Errorf("market slot not refilled from the deck: %+v", s.Market[0][0])
	}
	if len(s.Deck(1)) != 2 {
		t.Errorf("deck 1 has %d cards, want 2", len(s.Deck(1)))
	}
	checkConserved(t, s)
}

// ---------------------------------------------------------------------------
// Debug and modal actions
// ---------------------------------------------------------------------------

func TestDebugCrownsOpenRoyalPickAndKeepTurn(t *testing.T) {
	e, s := newTestGame(t)
	for i := 0; i < FirstRoyalCrowns; i++ {
		s = mustApply(t, e, s, DebugAddCrowns{Player: P1})
	}
	if s.Mode != ModeSelectRoyal || s.Turn != P1 {
		t.Fatalf("mode %s turn %s, want SELECT_ROYAL p1", s.Mode, s.Turn)
	}
	s = mustApply(t, e, s, SelectRoyalCard{Card: Card{ID: "royal-a"}})
	if s.Mode != ModeIdle || s.Turn != P1 {
		t.Errorf("mode %s turn %s, want IDLE p1", s.Mode, s.Turn)
	}
}

func TestDebugPointsCanEndGame(t *testing.T) {
	e, s := newTestGame(t)
	for i := 0; i < DefaultPoints; i++ {
		s = mustApply(t, e, s, DebugAddPoints{Player: P2})
	}
	if s.Winner != P2 {
		t.Errorf("Winner = %q, want p2", s.Winner)
	}
}

func TestDebugPrivilege(t *testing.T) {
	e, s := newTestGame(t)
	s = mustApply(t, e, s, DebugAddPrivilege{Player: P2})
	if s.Privileges.P2 != 1 || s.Turn != P1 {
		t.Errorf("privileges %+v turn %s", s.Privileges, s.Turn)
	}
	mustReject(t, e, s, DebugAddPrivilege{})
}

func TestPeekDeck(t *testing.T) {
	e, s := newTestGame(t)
	s = mustApply(t, e, s, PeekDeck{Level: 1})
	if s.Modal == nil || s.Modal.Level != 1 || len(s.Modal.Cards) != PeekDepth {
		t.Fatalf("modal = %+v", s.Modal)
	}
	if s.Turn != P1 || s.Mode != ModeIdle {
		t.Errorf("peek changed turn or mode: %s %s", s.Turn, s.Mode)
	}
	s = mustApply(t, e, s, PeekDeck{Level: 2})
	if len(s.Modal.Cards) != 1 {
		t.Errorf("level 2 peek shows %d cards, want 1", len(s.Modal.Cards))
	}
	s = mustApply(t, e, s, CloseModal{})
	if s.Modal != nil {
		t.Error("modal still open")
	}
	mustReject(t, e, s, PeekDeck{Level: 4})
}

func TestForceRoyalSelection(t *testing.T) {
	e, s := newTestGame(t)
	s = mustApply(t, e, s, ForceRoyalSelection{})
	if s.Mode != ModeSelectRoyal {
		t.Fatalf("mode %s", s.Mode)
	}
	mustReject(t, e, s, SelectRoyalCard{Card: Card{ID: "royal-z"}})
	s = mustApply(t, e, s, SelectRoyalCard{Card: Card{ID: "royal-b"}})
	if s.Turn != P1 || s.Mode != ModeIdle {
		t.Errorf("turn %s mode %s, want p1 IDLE", s.Turn, s.Mode)
	}
	if s.Privileges.P1 != 1 {
		t.Errorf("royal SCROLL: privileges = %d, want 1", s.Privileges.P1)
	}

	s.RoyalDeck = nil
	mustToast(t, e, s, ForceRoyalSelection{})
}
