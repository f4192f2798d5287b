// Package catalog holds the immutable reference data of Gem Duel: the gem
// table, development card templates, royal cards and buffs.
//
// Catalog values are built fresh by Default and never mutated afterwards;
// they are injected into the engine rather than read as globals.
package catalog

import (
	"slices"

	"github.com/jason-s-yu/gemduel/engine"
)

// Catalog is one complete set of game content.
type Catalog struct {
	Gems   map[engine.GemColor]int
	Decks  [3][]engine.Card
	Royals []engine.Card
	Buffs  []engine.Buff

	byID map[string]engine.Buff
}

// Default returns the standard content.
func Default() *Catalog {
	c := &Catalog{
		Gems:   gemTable(),
		Decks:  [3][]engine.Card{levelOne(), levelTwo(), levelThree()},
		Royals: royals(),
		Buffs:  buffs(),
	}
	c.byID = make(map[string]engine.Buff, len(c.Buffs))
	for _, b := range c.Buffs {
		c.byID[b.ID] = b
	}
	return c
}

// Buff resolves a buff by id. It satisfies engine.BuffLookup.
func (c *Catalog) Buff(id string) (engine.Buff, bool) {
	if id == engine.NoBuffID {
		return engine.NoBuff, true
	}
	b, ok := c.byID[id]
	return b, ok
}

// BuffsByLevel returns the buffs of one level in catalog order.
func (c *Catalog) BuffsByLevel(level int) []engine.Buff {
	var out []engine.Buff
	for _, b := range c.Buffs {
		if b.Level == level {
			out = append(out, b)
		}
	}
	return out
}

// GemPool returns every physical token in a fixed order.
func (c *Catalog) GemPool() []engine.GemColor {
	var pool []engine.GemColor
	for _, color := range engine.TokenColors {
		for i := 0; i < c.Gems[color]; i++ {
			pool = append(pool, color)
		}
	}
	return pool
}

// Deck returns a copy of the card templates for level 1..3.
func (c *Catalog) Deck(level int) []engine.Card {
	return slices.Clone(c.Decks[level-1])
}
