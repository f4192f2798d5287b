package setup

import (
	"testing"

	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDealsFullBoard(t *testing.T) {
	cat := catalog.Default()
	s := NewSeeded(cat, 1).Setup()

	uids := map[string]bool{}
	for r := range s.Board {
		for c := range s.Board[r] {
			cell := s.Board[r][c]
			assert.True(t, cell.Type.IsToken(), "cell (%d,%d) = %q", r, c, cell.Type)
			assert.False(t, uids[cell.UID], "duplicate uid %s", cell.UID)
			uids[cell.UID] = true
		}
	}
	assert.Len(t, s.Bag, catalog.TotalGems-engine.BoardSize*engine.BoardSize)

	for lvl := 0; lvl < 3; lvl++ {
		require.Len(t, s.Market[lvl], engine.MarketSizes[lvl])
		for _, c := range s.Market[lvl] {
			require.NotNil(t, c)
		}
		assert.Len(t, s.Decks[lvl], len(cat.Deck(lvl+1))-engine.MarketSizes[lvl])
	}
	assert.Len(t, s.RoyalDeck, len(cat.Royals))
}

func TestSeededSetupIsReproducible(t *testing.T) {
	cat := catalog.Default()
	a := NewSeeded(cat, 42).InitDraft()
	b := NewSeeded(cat, 42).InitDraft()
	assert.Equal(t, a, b)

	c := NewSeeded(cat, 43).Init()
	assert.NotEqual(t, a.Board, c.Board)
}

func TestCardIDsAreUnique(t *testing.T) {
	s := NewSeeded(catalog.Default(), 5).Setup()
	seen := map[string]bool{}
	check := func(id string) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	for lvl := 0; lvl < 3; lvl++ {
		for _, c := range s.Market[lvl] {
			check(c.ID)
		}
		for _, c := range s.Decks[lvl] {
			check(c.ID)
		}
	}
}

func TestDraftPool(t *testing.T) {
	cat := catalog.Default()
	pool := NewSeeded(cat, 9).DraftPool()
	require.Len(t, pool, 3*DraftPerLevel)
	levels := map[int]int{}
	for _, id := range pool {
		b, ok := cat.Buff(id)
		require.True(t, ok, id)
		levels[b.Level]++
	}
	assert.Equal(t, map[int]int{1: DraftPerLevel, 2: DraftPerLevel, 3: DraftPerLevel}, levels)
}

func TestFill(t *testing.T) {
	cat := catalog.Default()
	g := NewSeeded(cat, 3)
	eng := engine.New(cat)
	s := eng.Apply(nil, g.Init())
	require.NotNil(t, s)

	s = s.Clone()
	s.Board[2][2].Type = engine.GemEmpty
	s.Board[2][3].Type = engine.GemEmpty
	r, ok := g.Fill(s, engine.Replenish{}).(engine.Replenish)
	require.True(t, ok)
	require.NotNil(t, r.Randoms)
	assert.Len(t, r.Randoms.BagPicks, 2)
	assert.True(t, r.Randoms.BonusColor.IsBasic())

	given := engine.Replenish{Randoms: &engine.ReplenishRandoms{BagPicks: []int{1}}}
	assert.Equal(t, given, g.Fill(s, given))

	sb := g.Fill(s, engine.SelectBuff{BuffID: "tycoon"}).(engine.SelectBuff)
	assert.True(t, sb.RandomColor.IsBasic())
	assert.Len(t, sb.InitRandoms, 3)

	buy := g.Fill(s, engine.BuyCard{}).(engine.BuyCard)
	require.NotNil(t, buy.Randoms)

	take := engine.TakeGems{Coords: []engine.Coord{{R: 0, C: 0}}}
	assert.Equal(t, take, g.Fill(s, take))
}
