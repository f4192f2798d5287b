package catalog

import (
	"fmt"

	"github.com/jason-s-yu/gemduel/engine"
)

// Each coloured card is described relative to its bonus colour: offset k in
// a cost names the basic colour k steps after it in engine.BasicColors.
// Every colour gets the same set of shapes. Joker shapes use absolute
// colour indices instead.
type shape struct {
	cost      map[int]int // colour offset -> count
	pearls    int
	points    int
	crowns    int
	abilities []engine.Ability
}

var (
	again    = engine.AbilityAgain
	bonusGem = engine.AbilityBonusGem
	steal    = engine.AbilitySteal
	scroll   = engine.AbilityScroll
)

var levelOneShapes = []shape{
	{cost: map[int]int{1: 1, 2: 1, 3: 1}},
	{cost: map[int]int{1: 2, 4: 1}, abilities: []engine.Ability{bonusGem}},
	{cost: map[int]int{2: 3}, crowns: 1},
	{cost: map[int]int{3: 2}, pearls: 1, points: 1},
	{cost: map[int]int{4: 2, 1: 2}, abilities: []engine.Ability{scroll}},
}

var levelOneJokers = []shape{
	{cost: map[int]int{0: 2, 1: 2}, pearls: 1, crowns: 1},
	{cost: map[int]int{1: 2, 2: 2}, pearls: 1, crowns: 1},
	{cost: map[int]int{2: 2, 3: 2}, pearls: 1, points: 1},
	{cost: map[int]int{3: 2, 4: 2}, pearls: 1, points: 1},
	{cost: map[int]int{4: 2, 0: 2}, pearls: 1, abilities: []engine.Ability{again}},
}

var levelTwoShapes = []shape{
	{cost: map[int]int{1: 3, 2: 2}, pearls: 1, points: 1, abilities: []engine.Ability{bonusGem}},
	{cost: map[int]int{2: 4, 3: 2}, points: 2, crowns: 1},
	{cost: map[int]int{3: 5}, points: 2, abilities: []engine.Ability{steal}},
	{cost: map[int]int{4: 3, 1: 3}, pearls: 1, points: 1, crowns: 2, abilities: []engine.Ability{again}},
}

var levelTwoJokers = []shape{
	{cost: map[int]int{0: 4, 1: 2}, pearls: 1, points: 2, crowns: 1},
	{cost: map[int]int{1: 4, 2: 2}, pearls: 1, points: 2, abilities: []engine.Ability{steal}},
	{cost: map[int]int{2: 4, 3: 2}, pearls: 1, points: 1, crowns: 2},
	{cost: map[int]int{3: 4, 4: 2}, pearls: 1, points: 2, abilities: []engine.Ability{scroll}},
}

var levelThreeShapes = []shape{
	{cost: map[int]int{1: 6, 2: 2}, pearls: 1, points: 4, crowns: 1},
	{cost: map[int]int{3: 5, 4: 3, 1: 2}, points: 3, crowns: 2, abilities: []engine.Ability{again}},
}

var levelThreeJokers = []shape{
	{cost: map[int]int{0: 6, 2: 2}, pearls: 1, points: 3, crowns: 3},
	{cost: map[int]int{1: 6, 3: 2}, pearls: 1, points: 5},
	{cost: map[int]int{2: 5, 4: 3}, pearls: 1, points: 4, crowns: 2, abilities: []engine.Ability{steal}},
}

func levelOne() []engine.Card   { return buildLevel(1, levelOneShapes, levelOneJokers) }
func levelTwo() []engine.Card   { return buildLevel(2, levelTwoShapes, levelTwoJokers) }
func levelThree() []engine.Card { return buildLevel(3, levelThreeShapes, levelThreeJokers) }

// buildLevel expands the shapes of one level into card templates with ids
// of the form "L<level>-<colour>-<n>".
func buildLevel(level int, shapes []shape, jokers []shape) []engine.Card {
	colors := engine.BasicColors
	var out []engine.Card
	for ci, color := range colors {
		for n, sh := range shapes {
			cost := make(map[engine.GemColor]int, len(sh.cost)+1)
			for off, cnt := range sh.cost {
				cost[colors[(ci+off)%len(colors)]] += cnt
			}
			if sh.pearls > 0 {
				cost[engine.GemPearl] = sh.pearls
			}
			out = append(out, engine.Card{
				ID:         fmt.Sprintf("L%d-%s-%d", level, color, n+1),
				Level:      level,
				Cost:       cost,
				Points:     sh.points,
				BonusColor: color,
				BonusCount: 1,
				Crowns:     sh.crowns,
				Abilities:  sh.abilities,
			})
		}
	}
	for n, j := range jokers {
		cost := make(map[engine.GemColor]int, len(j.cost)+1)
		for idx, cnt := range j.cost {
			cost[colors[idx]] += cnt
		}
		if j.pearls > 0 {
			cost[engine.GemPearl] = j.pearls
		}
		out = append(out, engine.Card{
			ID:         fmt.Sprintf("L%d-joker-%d", level, n+1),
			Level:      level,
			Cost:       cost,
			Points:     j.points,
			BonusColor: engine.GemGold,
			BonusCount: 1,
			Crowns:     j.crowns,
			Abilities:  j.abilities,
		})
	}
	return out
}
