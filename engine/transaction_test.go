package engine

import "testing"

func withBuff(id string) PlayerBuff {
	b := testBuffs[id]
	return PlayerBuff{Buff: b, State: initialBuffState(b, GemRed)}
}

// ---------------------------------------------------------------------------
// Flat and level discounts
// ---------------------------------------------------------------------------

func TestTransactionDiscounts(t *testing.T) {
	tests := []struct {
		name string
		card Card
		buff PlayerBuff
		gold int
	}{
		{
			name: "level 2 with discountAny",
			card: card("x", 2, map[GemColor]int{GemBlue: 2, GemRed: 2}, GemWhite, 0),
			buff: withBuff("bargain"),
			gold: 3,
		},
		{
			name: "level 1 ignores discountAny",
			card: card("x", 1, map[GemColor]int{GemBlue: 2, GemRed: 2}, GemWhite, 0),
			buff: withBuff("bargain"),
			gold: 4,
		},
		{
			name: "level 3 with discountAny and l3Discount",
			card: card("x", 3, map[GemColor]int{GemBlue: 5, GemRed: 5}, GemWhite, 0),
			buff: withBuff("tycoon"),
			gold: 6,
		},
		{
			name: "discountAny reaches pearls after basics",
			card: card("x", 2, map[GemColor]int{GemPearl: 1}, GemWhite, 0),
			buff: withBuff("bargain"),
			gold: 0,
		},
		{
			name: "basics absorb the flat discount before pearls",
			card: card("x", 2, map[GemColor]int{GemRed: 1, GemPearl: 1}, GemWhite, 0),
			buff: withBuff("bargain"),
			gold: 1,
		},
		{
			name: "level 3 gold halved",
			card: card("x", 3, map[GemColor]int{GemBlue: 5}, GemWhite, 0),
			buff: withBuff("alchemist"),
			gold: 3,
		},
		{
			name: "gold halving is level 3 only",
			card: card("x", 2, map[GemColor]int{GemBlue: 5}, GemWhite, 0),
			buff: withBuff("alchemist"),
			gold: 5,
		},
		{
			name: "colour discount",
			card: card("x", 1, map[GemColor]int{GemRed: 2}, GemWhite, 0),
			buff: withBuff("affinity"),
			gold: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := CalculateTransaction(tt.card, NewInventory(), nil, tt.buff)
			if tx.GoldCost != tt.gold {
				t.Errorf("GoldCost = %d, want %d", tx.GoldCost, tt.gold)
			}
			if want := tt.gold == 0; tx.Affordable != want {
				t.Errorf("Affordable = %v with an empty inventory, want %v", tx.Affordable, want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Bonuses and payment
// ---------------------------------------------------------------------------

func TestTransactionBonusesCoverCost(t *testing.T) {
	owned := []Card{
		card("a", 1, nil, GemBlue, 0),
		card("b", 1, nil, GemBlue, 0),
	}
	tx := CalculateTransaction(card("x", 1, map[GemColor]int{GemBlue: 2}, GemRed, 0), NewInventory(), owned, neutralBuff())
	if !tx.Affordable || tx.GoldCost != 0 {
		t.Fatalf("got %+v, want affordable with no gold", tx)
	}
	if len(tx.Paid) != 0 {
		t.Errorf("Paid = %v, want nothing", tx.Paid)
	}
}

func TestTransactionBuffMarkerNeverDiscounts(t *testing.T) {
	owned := []Card{{ID: "buff-p1-blue", BonusColor: GemBlue, BonusCount: 1, IsBuff: true}}
	tx := CalculateTransaction(card("x", 1, map[GemColor]int{GemBlue: 1}, GemRed, 0), NewInventory(), owned, neutralBuff())
	if tx.Affordable || tx.GoldCost != 1 {
		t.Errorf("got %+v, want unaffordable with 1 gold owed", tx)
	}
}

func TestTransactionGoldCoversShortfall(t *testing.T) {
	inv := NewInventory()
	inv[GemBlue] = 1
	inv[GemGold] = 2
	tx := CalculateTransaction(card("x", 1, map[GemColor]int{GemBlue: 3}, GemRed, 0), inv, nil, neutralBuff())
	if !tx.Affordable || tx.GoldCost != 2 {
		t.Fatalf("got %+v, want affordable with 2 gold", tx)
	}
	if tx.Paid[GemBlue] != 1 {
		t.Errorf("Paid[blue] = %d, want 1", tx.Paid[GemBlue])
	}
}

func TestTransactionPearlCostIgnoresBonuses(t *testing.T) {
	owned := []Card{card("a", 1, nil, GemBlue, 0)}
	inv := NewInventory()
	inv[GemPearl] = 1
	tx := CalculateTransaction(card("x", 1, map[GemColor]int{GemPearl: 1, GemBlue: 1}, GemRed, 0), inv, owned, neutralBuff())
	if !tx.Affordable || tx.GoldCost != 0 || tx.Paid[GemPearl] != 1 {
		t.Errorf("got %+v, want 1 pearl paid", tx)
	}
}
