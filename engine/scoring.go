package engine

// WinGoals are the buff-adjusted thresholds for one player.
type WinGoals struct {
	Points      int  `json:"points"`
	Crowns      int  `json:"crowns"`
	ColorPoints int  `json:"colorPoints"`
	ColorWin    bool `json:"colorWin"`
}

// Goals returns p's win thresholds after buff overrides.
func Goals(s *GameState, p Player) WinGoals {
	e := s.PlayerBuffs.Get(p).Buff.Effects
	g := WinGoals{Points: DefaultPoints, Crowns: DefaultCrowns, ColorPoints: DefaultColorPt, ColorWin: true}
	if e.WinPoints > 0 {
		g.Points = e.WinPoints
	}
	if e.WinCrowns > 0 {
		g.Crowns = e.WinCrowns
	}
	if e.WinColorPoints > 0 {
		g.ColorPoints = e.WinColorPoints
	}
	if e.DisableColorWin {
		g.ColorWin = false
	}
	return g
}

// PlayerScore returns p's total prestige points: owned cards, royal cards,
// out-of-band grants and the buff's per-card bonus. Buff marker cards never
// count.
func PlayerScore(s *GameState, p Player) int {
	total := s.ExtraPoints.Get(p)
	for _, c := range s.PlayerTableau.Get(p) {
		if !c.IsBuff {
			total += c.Points
		}
	}
	for _, c := range s.PlayerRoyals.Get(p) {
		total += c.Points
	}
	if n := s.PlayerBuffs.Get(p).Buff.Effects.PointsPerCards; n > 0 {
		total += CardCount(s, p) / n
	}
	return total
}

// CardCount returns how many cards p owns, not counting buff markers.
func CardCount(s *GameState, p Player) int {
	n := 0
	for _, c := range s.PlayerTableau.Get(p) {
		if !c.IsBuff {
			n++
		}
	}
	return n
}

// CrownCount returns p's crowns from owned cards plus out-of-band grants.
func CrownCount(s *GameState, p Player) int {
	total := s.ExtraCrowns.Get(p)
	for _, c := range s.PlayerTableau.Get(p) {
		if !c.IsBuff {
			total += c.Crowns
		}
	}
	return total
}

// ColorPoints returns the points p holds in cards of the given bonus colour.
func ColorPoints(s *GameState, p Player, color GemColor) int {
	total := 0
	for _, c := range s.PlayerTableau.Get(p) {
		if !c.IsBuff && c.BonusColor == color {
			total += c.Points
		}
	}
	return total
}

// TotalGems returns the number of gems p holds.
func TotalGems(s *GameState, p Player) int { return s.Inventories.Get(p).Total() }

// GemCap returns p's buff-adjusted gem limit.
func GemCap(s *GameState, p Player) int {
	if c := s.PlayerBuffs.Get(p).Buff.Effects.GemCap; c > 0 {
		return c
	}
	return DefaultGemCap
}

// HasExcessGems reports whether p holds more gems than allowed.
func HasExcessGems(s *GameState, p Player) bool { return TotalGems(s, p) > GemCap(s, p) }

// hasWon evaluates the three win conditions for p.
func hasWon(s *GameState, p Player) bool {
	g := Goals(s, p)
	if PlayerScore(s, p) >= g.Points {
		return true
	}
	if CrownCount(s, p) >= g.Crowns {
		return true
	}
	if g.ColorWin {
		for _, c := range BasicColors {
			if ColorPoints(s, p, c) >= g.ColorPoints {
				return true
			}
		}
	}
	return false
}
