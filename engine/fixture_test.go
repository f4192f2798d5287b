package engine

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// buffTable is a minimal BuffLookup for tests.
type buffTable map[string]Buff

func (t buffTable) Buff(id string) (Buff, bool) {
	if id == NoBuffID {
		return NoBuff, true
	}
	b, ok := t[id]
	return b, ok
}

var testBuffs = buffTable{
	"hoarder":   {ID: "hoarder", Level: 3, Effects: Effects{GemCap: 12, StartRandomGems: 3}},
	"affinity":  {ID: "affinity", Level: 2, Effects: Effects{ColorDiscount: true}},
	"envoy":     {ID: "envoy", Level: 3, Effects: Effects{PrivilegeEvery: 2}},
	"diver":     {ID: "diver", Level: 2, Effects: Effects{PrivilegeGems: 2}},
	"collector": {ID: "collector", Level: 1, Effects: Effects{ReserveBonus: true}},
	"recycler":  {ID: "recycler", Level: 2, Effects: Effects{ReplenishBonusGem: true}},
	"seeker":    {ID: "seeker", Level: 3, Effects: Effects{WinCrowns: 8, DisableColorWin: true}},
	"architect": {ID: "architect", Level: 3, Effects: Effects{PointsPerCards: 2}},
	"tycoon":    {ID: "tycoon", Level: 3, Effects: Effects{DiscountAny: 1, L3Discount: 3}},
	"bargain":   {ID: "bargain", Level: 1, Effects: Effects{DiscountAny: 1}},
	"alchemist": {ID: "alchemist", Level: 3, Effects: Effects{GoldBuff: true}},
	"cramped":   {ID: "cramped", Level: 1, Effects: Effects{GemCap: 2, StartRandomGems: 3}},
	"raider":    {ID: "raider", Level: 2, Effects: Effects{StealEvery: 1}},
	"refunder":  {ID: "refunder", Level: 2, Effects: Effects{RefundMinLevel: 2}},
	"patron":    {ID: "patron", Level: 2, Effects: Effects{PrivilegeOnL3: true}},
	"miner":     {ID: "miner", Level: 2, Effects: Effects{BuyBonusGem: true}},
}

// testBoard holds 5 blue, 4 white, 4 green, 3 black, 5 red, 2 pearl and
// 2 gold. Pearls sit diagonally adjacent at (1,3) and (2,4); gold at (1,4)
// and (3,2).
var testBoard = [BoardSize][BoardSize]GemColor{
	{GemBlue, GemBlue, GemBlue, GemWhite, GemWhite},
	{GemGreen, GemBlack, GemRed, GemPearl, GemGold},
	{GemRed, GemRed, GemRed, GemGreen, GemPearl},
	{GemWhite, GemBlack, GemGold, GemBlue, GemGreen},
	{GemBlack, GemWhite, GemGreen, GemRed, GemBlue},
}

// testBag completes the 52-gem supply.
var testBag = map[GemColor]int{
	GemBlue: 4, GemWhite: 5, GemGreen: 5, GemBlack: 6, GemRed: 4, GemPearl: 2, GemGold: 1,
}

const totalGems = 52

func card(id string, level int, cost map[GemColor]int, bonus GemColor, points int, abilities ...Ability) Card {
	return Card{ID: id, Level: level, Cost: cost, Points: points, BonusColor: bonus, BonusCount: 1, Abilities: abilities}
}

func testSetup() Setup {
	var s Setup
	for r := range testBoard {
		for c := range testBoard[r] {
			s.Board[r][c] = Cell{Type: testBoard[r][c], UID: fmt.Sprintf("b%d%d", r, c)}
		}
	}
	n := 0
	for _, color := range TokenColors {
		for i := 0; i < testBag[color]; i++ {
			s.Bag = append(s.Bag, Cell{Type: color, UID: fmt.Sprintf("bag%d", n)})
			n++
		}
	}

	crownCard := card("l2-crown", 2, nil, GemRed, 1)
	crownCard.Crowns = 3
	l3c := card("l3-c", 3, map[GemColor]int{GemWhite: 4, GemPearl: 1}, GemWhite, 5)
	l3c.Crowns = 2
	rows := [3][]Card{
		{
			card("l1-again", 1, nil, GemRed, 1, AbilityAgain),
			card("l1-white", 1, map[GemColor]int{GemWhite: 1}, GemBlue, 0),
			card("l1-steal", 1, nil, GemBlack, 0, AbilitySteal),
			card("l1-bonus", 1, nil, GemGreen, 0, AbilityBonusGem),
			card("l1-joker", 1, nil, GemGold, 1),
		},
		{
			card("l2-a", 2, map[GemColor]int{GemBlue: 2, GemRed: 2}, GemWhite, 2),
			crownCard,
			card("l2-b", 2, map[GemColor]int{GemGreen: 3}, GemGreen, 1),
			card("l2-scroll", 2, nil, GemBlue, 0, AbilityScroll),
		},
		{
			card("l3-a", 3, map[GemColor]int{GemBlue: 5, GemRed: 5}, GemBlack, 4),
			card("l3-b", 3, map[GemColor]int{GemBlack: 6}, GemRed, 3),
			l3c,
		},
	}
	for lvl, row := range rows {
		for i := range row {
			c := row[i]
			s.Market[lvl] = append(s.Market[lvl], &c)
		}
	}
	s.Decks = [3][]Card{
		{card("d1-a", 1, nil, GemWhite, 0), card("d1-b", 1, nil, GemGreen, 0), card("d1-c", 1, nil, GemBlack, 0)},
		{card("d2-a", 2, nil, GemBlue, 1)},
		{card("d3-a", 3, nil, GemRed, 3)},
	}
	s.RoyalDeck = []Card{
		{ID: "royal-a", Points: 3},
		{ID: "royal-b", Points: 2, Abilities: []Ability{AbilityScroll}},
		{ID: "royal-c", Points: 2, Abilities: []Ability{AbilitySteal}},
	}
	return s
}

func newTestEngine() *Engine {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(testBuffs, WithLogger(l))
}

// newTestGame returns an engine and the genesis state of the fixture setup.
func newTestGame(t *testing.T) (*Engine, *GameState) {
	t.Helper()
	e := newTestEngine()
	s := e.Apply(nil, Init{Setup: testSetup()})
	if s == nil {
		t.Fatal("INIT returned nil state")
	}
	return e, s
}

// mustApply applies a and fails the test on rejection or toast.
func mustApply(t *testing.T, e *Engine, s *GameState, a Action) *GameState {
	t.Helper()
	next := e.Apply(s, a)
	if next == s {
		t.Fatalf("%s rejected in mode %s", a.Tag(), s.Mode)
	}
	if next.ToastMessage != "" {
		t.Fatalf("%s toasted: %q", a.Tag(), next.ToastMessage)
	}
	return next
}

// mustToast applies a and fails unless it produced a toast.
func mustToast(t *testing.T, e *Engine, s *GameState, a Action) *GameState {
	t.Helper()
	next := e.Apply(s, a)
	if next == s {
		t.Fatalf("%s rejected, expected a toast", a.Tag())
	}
	if next.ToastMessage == "" {
		t.Fatalf("%s: expected a toast", a.Tag())
	}
	return next
}

// mustReject applies a and fails unless the reducer returned s unchanged.
func mustReject(t *testing.T, e *Engine, s *GameState, a Action) {
	t.Helper()
	if next := e.Apply(s, a); next != s {
		t.Fatalf("%s: expected rejection, got mode %s toast %q", a.Tag(), next.Mode, next.ToastMessage)
	}
}

func buyMarket(s *GameState, level, idx int) BuyCard {
	return BuyCard{Card: *s.Market[level-1][idx], Source: SourceMarket, MarketInfo: &MarketRef{Level: level, Idx: idx}}
}

// gemCount returns every gem on the board, in the bag and held by players.
func gemCount(s *GameState) int {
	return s.Board.Gems() + len(s.Bag) + s.Inventories.P1.Total() + s.Inventories.P2.Total()
}

func checkConserved(t *testing.T, s *GameState) {
	t.Helper()
	if n := gemCount(s); n != totalGems {
		t.Errorf("gem count = %d, want %d", n, totalGems)
	}
}

// fund moves n gems of color from the bag to p.
func fund(t *testing.T, s *GameState, p Player, color GemColor, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if !s.drawFromBag(color) {
			t.Fatalf("bag has no %s left", color)
		}
		(*s.Inventories.Of(p))[color]++
	}
}

func coords(pts ...int) []Coord {
	out := make([]Coord, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		out = append(out, Coord{pts[i], pts[i+1]})
	}
	return out
}
