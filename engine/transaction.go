package engine

// Transaction is the resolved payment for a card.
type Transaction struct {
	Affordable bool `json:"affordable"`
	GoldCost   int  `json:"goldCost"`
	// Paid is the non-gold amount spent per colour.
	Paid map[GemColor]int `json:"paid"`
}

// flatOrder is the order flat discounts are taken from the remaining cost.
var flatOrder = [...]GemColor{GemBlue, GemWhite, GemGreen, GemBlack, GemRed, GemPearl}

// CalculateTransaction resolves what buying card costs a player holding inv,
// owning the cards in owned and carrying buff.
//
// Bonuses from owned cards (buff markers excluded) and the buff's discount
// colour reduce basic colour costs first. The buff's flat discount is then
// spread greedily over the remaining basic costs in BasicColors order.
// Whatever the player cannot cover from held gems is owed in gold, halved
// and rounded up on level 3 when the buff allows it.
func CalculateTransaction(card Card, inv Inventory, owned []Card, buff PlayerBuff) Transaction {
	bonus := make(map[GemColor]int, len(BasicColors))
	for _, c := range owned {
		if c.IsBuff || !c.BonusColor.IsBasic() {
			continue
		}
		bonus[c.BonusColor] += c.BonusCount
	}
	if color, ok := buff.DiscountColor(); ok {
		bonus[color]++
	}

	remaining := make(map[GemColor]int, len(card.Cost))
	for color, n := range card.Cost {
		if color.IsBasic() {
			n -= bonus[color]
		}
		if n > 0 {
			remaining[color] = n
		}
	}

	e := buff.Buff.Effects
	flat := 0
	if card.Level >= 2 {
		flat += e.DiscountAny
	}
	if card.Level == 3 {
		flat += e.L3Discount
	}
	for _, color := range flatOrder {
		if flat == 0 {
			break
		}
		cut := min(flat, remaining[color])
		remaining[color] -= cut
		flat -= cut
	}

	paid := make(map[GemColor]int, len(remaining))
	owed := 0
	for color, n := range remaining {
		if n <= 0 {
			continue
		}
		if color == GemGold {
			owed += n
			continue
		}
		use := min(inv[color], n)
		if use > 0 {
			paid[color] = use
		}
		owed += n - use
	}
	if card.Level == 3 && e.GoldBuff {
		owed = (owed + 1) / 2
	}

	return Transaction{
		Affordable: inv[GemGold] >= owed,
		GoldCost:   owed,
		Paid:       paid,
	}
}
