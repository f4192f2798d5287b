package catalog

import "github.com/jason-s-yu/gemduel/engine"

func royals() []engine.Card {
	return []engine.Card{
		{ID: "royal-1", Points: 3},
		{ID: "royal-2", Points: 2, Abilities: []engine.Ability{engine.AbilitySteal}},
		{ID: "royal-3", Points: 2, Abilities: []engine.Ability{engine.AbilityScroll}},
		{ID: "royal-4", Points: 2, Abilities: []engine.Ability{engine.AbilityAgain}},
	}
}
