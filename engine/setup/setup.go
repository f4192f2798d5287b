// Package setup produces genesis content and fills caller-side randomness
// into actions before they are recorded, so that the reducer itself stays a
// pure function of the log.
package setup

import (
	"fmt"
	"math/rand/v2"

	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/catalog"
)

// DraftPerLevel is how many buffs of each level are offered in a draft.
const DraftPerLevel = 2

// Generator deals games from a catalog. It is not safe for concurrent use.
type Generator struct {
	cat *catalog.Catalog
	rng *rand.Rand
}

// New returns a generator drawing from src.
func New(cat *catalog.Catalog, src rand.Source) *Generator {
	return &Generator{cat: cat, rng: rand.New(src)}
}

// NewSeeded returns a generator with a reproducible PCG source.
func NewSeeded(cat *catalog.Catalog, seed uint64) *Generator {
	return New(cat, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Setup shuffles the token pool onto the board in spiral order, bags the
// remainder, shuffles each deck and deals the market rows.
func (g *Generator) Setup() engine.Setup {
	var s engine.Setup

	tokens := g.cat.GemPool()
	g.rng.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })
	for i := range s.Board {
		for j := range s.Board[i] {
			s.Board[i][j] = engine.Cell{Type: engine.GemEmpty, UID: fmt.Sprintf("e%d", i*engine.BoardSize+j)}
		}
	}
	for i, color := range tokens {
		cell := engine.Cell{Type: color, UID: fmt.Sprintf("b%d", i)}
		if i < len(engine.SpiralOrder) {
			s.Board[engine.SpiralOrder[i].R][engine.SpiralOrder[i].C] = cell
			continue
		}
		s.Bag = append(s.Bag, cell)
	}

	serial := 0
	for lvl := 1; lvl <= 3; lvl++ {
		deck := g.cat.Deck(lvl)
		for i := range deck {
			serial++
			deck[i].ID = fmt.Sprintf("%s.%d", deck[i].ID, serial)
		}
		g.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		n := min(engine.MarketSizes[lvl-1], len(deck))
		row := make([]*engine.Card, engine.MarketSizes[lvl-1])
		for i := 0; i < n; i++ {
			c := deck[i]
			row[i] = &c
		}
		s.Market[lvl-1] = row
		s.Decks[lvl-1] = deck[n:]
	}

	s.RoyalDeck = append([]engine.Card(nil), g.cat.Royals...)
	return s
}

// DraftPool picks DraftPerLevel distinct buffs of each level.
func (g *Generator) DraftPool() []string {
	var pool []string
	for lvl := 1; lvl <= 3; lvl++ {
		buffs := g.cat.BuffsByLevel(lvl)
		for _, i := range g.rng.Perm(len(buffs))[:min(DraftPerLevel, len(buffs))] {
			pool = append(pool, buffs[i].ID)
		}
	}
	return pool
}

// Init returns a ready-to-record INIT action.
func (g *Generator) Init() engine.Init { return engine.Init{Setup: g.Setup()} }

// InitDraft returns a ready-to-record INIT_DRAFT action.
func (g *Generator) InitDraft() engine.InitDraft {
	return engine.InitDraft{Setup: g.Setup(), DraftPool: g.DraftPool()}
}

// Fill returns a with any missing randomness drawn from the generator. s is
// the state the action will be applied to.
func (g *Generator) Fill(s *engine.GameState, a engine.Action) engine.Action {
	switch act := a.(type) {
	case engine.Replenish:
		if act.Randoms == nil && s != nil {
			r := &engine.ReplenishRandoms{BonusColor: g.basic()}
			left := len(s.Bag)
			for i := 0; i < s.Board.Count(engine.GemEmpty) && left > 0; i++ {
				r.BagPicks = append(r.BagPicks, g.rng.IntN(left))
				left--
			}
			act.Randoms = r
		}
		return act
	case engine.SelectBuff:
		if act.RandomColor == "" {
			act.RandomColor = g.basic()
		}
		if act.InitRandoms == nil {
			for i := 0; i < 3; i++ {
				act.InitRandoms = append(act.InitRandoms, g.basic())
			}
		}
		return act
	case engine.BuyCard:
		if act.Randoms == nil {
			act.Randoms = &engine.BuyRandoms{BonusColor: g.basic()}
		}
		return act
	default:
		return a
	}
}

func (g *Generator) basic() engine.GemColor {
	return engine.BasicColors[g.rng.IntN(len(engine.BasicColors))]
}
