package catalog

import "github.com/jason-s-yu/gemduel/engine"

// Token counts. The sum is the fixed supply every reachable state conserves.
const (
	BasicGemCount = 9
	PearlCount    = 4
	GoldCount     = 3
	TotalGems     = BasicGemCount*5 + PearlCount + GoldCount
)

func gemTable() map[engine.GemColor]int {
	t := map[engine.GemColor]int{
		engine.GemPearl: PearlCount,
		engine.GemGold:  GoldCount,
	}
	for _, c := range engine.BasicColors {
		t[c] = BasicGemCount
	}
	return t
}
