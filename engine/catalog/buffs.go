package catalog

import "github.com/jason-s-yu/gemduel/engine"

func buffs() []engine.Buff {
	return []engine.Buff{
		// Level 1: small head starts.
		{ID: "royal_favor", Level: 1, Name: "Royal Favor", Description: "Start with a privilege.",
			Effects: engine.Effects{StartPrivileges: 1}},
		{ID: "head_start", Level: 1, Name: "Head Start", Description: "Start with 2 random gems.",
			Effects: engine.Effects{StartRandomGems: 2}},
		{ID: "deep_pockets", Level: 1, Name: "Deep Pockets", Description: "Hold up to 11 gems.",
			Effects: engine.Effects{GemCap: 11}},
		{ID: "bargain_hunter", Level: 1, Name: "Bargain Hunter", Description: "Level 2 and 3 cards cost 1 less.",
			Effects: engine.Effects{DiscountAny: 1}},
		{ID: "collector", Level: 1, Name: "Collector", Description: "Your first reservation also grants a privilege.",
			Effects: engine.Effects{ReserveBonus: true}},
		{ID: "pearl_start", Level: 1, Name: "Pearl Start", Description: "Start with a pearl.",
			Effects: engine.Effects{StartPearls: 1}},

		// Level 2: rule benders.
		{ID: "color_affinity", Level: 2, Name: "Color Affinity", Description: "A random colour is permanently 1 cheaper.",
			Effects: engine.Effects{ColorDiscount: true}},
		{ID: "pearl_diver", Level: 2, Name: "Pearl Diver", Description: "Each privilege takes 2 gems.",
			Effects: engine.Effects{PrivilegeGems: 2}},
		{ID: "recycler", Level: 2, Name: "Recycler", Description: "Replenishing gives you a gem from the bag.",
			Effects: engine.Effects{ReplenishBonusGem: true}},
		{ID: "scavenger", Level: 2, Name: "Scavenger", Description: "Every second replenish lets you steal a gem.",
			Effects: engine.Effects{StealEvery: 2}},
		{ID: "prospector", Level: 2, Name: "Prospector", Description: "Buying level 2 or 3 cards gives a gem from the bag.",
			Effects: engine.Effects{BuyBonusGem: true}},
		{ID: "frugal", Level: 2, Name: "Frugal", Description: "Hold at most 8 gems; level 2 and 3 cards cost 2 less.",
			Effects: engine.Effects{GemCap: 8, DiscountAny: 2}},
		{ID: "cashback", Level: 2, Name: "Cashback", Description: "Buying level 2 or 3 cards refunds one paid gem.",
			Effects: engine.Effects{RefundMinLevel: 2}},
		{ID: "gold_reserve", Level: 2, Name: "Gold Reserve", Description: "Start with a gold gem.",
			Effects: engine.Effects{StartGold: 1}},

		// Level 3: game changers.
		{ID: "tycoon", Level: 3, Name: "Tycoon", Description: "Level 2 cards cost 1 less, level 3 cards 4 less.",
			Effects: engine.Effects{DiscountAny: 1, L3Discount: 3}},
		{ID: "alchemist", Level: 3, Name: "Alchemist", Description: "Gold owed for level 3 cards is halved.",
			Effects: engine.Effects{GoldBuff: true}},
		{ID: "ascetic", Level: 3, Name: "Ascetic", Description: "Hold at most 6 gems; win at 16 points.",
			Effects: engine.Effects{GemCap: 6, WinPoints: 16}},
		{ID: "crown_seeker", Level: 3, Name: "Crown Seeker", Description: "Win at 8 crowns; no single-colour win.",
			Effects: engine.Effects{WinCrowns: 8, DisableColorWin: true}},
		{ID: "architect", Level: 3, Name: "Architect", Description: "Score 1 point for every 4 cards.",
			Effects: engine.Effects{PointsPerCards: 4}},
		{ID: "royal_envoy", Level: 3, Name: "Royal Envoy", Description: "Every 3 turns gain a privilege that cannot be taken.",
			Effects: engine.Effects{PrivilegeEvery: 3}},
		{ID: "hoarder", Level: 3, Name: "Hoarder", Description: "Hold up to 12 gems; start with 3 random gems.",
			Effects: engine.Effects{GemCap: 12, StartRandomGems: 3}},
		{ID: "patron", Level: 3, Name: "Patron", Description: "Buying a level 3 card grants a privilege.",
			Effects: engine.Effects{PrivilegeOnL3: true}},
		{ID: "specialist", Level: 3, Name: "Specialist", Description: "Single-colour win at 8 points.",
			Effects: engine.Effects{WinColorPoints: 8}},
	}
}
