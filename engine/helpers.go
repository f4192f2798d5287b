package engine

import "strconv"

// FeedbackKind classifies a feedback event shown to the players.
type FeedbackKind string

const (
	FeedbackPrivilege FeedbackKind = "privilege"
	FeedbackGem       FeedbackKind = "gem"
	FeedbackSteal     FeedbackKind = "steal"
	FeedbackRoyal     FeedbackKind = "royal"
	FeedbackBuff      FeedbackKind = "buff"
	FeedbackRefund    FeedbackKind = "refund"
)

// Feedback is a transient event describing a side effect of the last action.
type Feedback struct {
	Player Player       `json:"player"`
	Kind   FeedbackKind `json:"kind"`
	Detail string       `json:"detail,omitempty"`
}

func (s *GameState) feedback(p Player, kind FeedbackKind, detail string) {
	s.LastFeedback = append(s.LastFeedback, Feedback{Player: p, Kind: kind, Detail: detail})
}

func (s *GameState) toast(msg string) { s.ToastMessage = msg }

// mintUID returns the next deterministic cell uid.
func (s *GameState) mintUID() string {
	s.UIDSeq++
	return "g" + strconv.FormatUint(s.UIDSeq, 10)
}

// grantPrivilege gives p one privilege. When the pool is exhausted the
// privilege is taken from the opponent instead; if p already holds all of
// them nothing happens.
func (s *GameState) grantPrivilege(p Player) {
	opp := p.Opponent()
	if s.Privileges.P1+s.Privileges.P2 < MaxPrivileges {
		*s.Privileges.Of(p)++
		s.feedback(p, FeedbackPrivilege, "+1")
		return
	}
	if *s.Privileges.Of(opp) > 0 {
		*s.Privileges.Of(opp)--
		*s.Privileges.Of(p)++
		s.feedback(p, FeedbackPrivilege, "taken from "+string(opp))
	}
}

// takeFromBoard moves the gem at c into p's inventory and empties the cell.
func (s *GameState) takeFromBoard(p Player, c Coord) GemColor {
	cell := s.Board.At(c)
	color := cell.Type
	(*s.Inventories.Of(p))[color]++
	*cell = Cell{Type: GemEmpty, UID: s.mintUID()}
	return color
}

// returnToBag removes n gems of color from p's inventory and bags them.
func (s *GameState) returnToBag(p Player, color GemColor, n int) {
	if n <= 0 {
		return
	}
	(*s.Inventories.Of(p))[color] -= n
	for i := 0; i < n; i++ {
		s.Bag = append(s.Bag, Cell{Type: color, UID: s.mintUID()})
	}
}

// drawFromBag removes one gem of color from the bag.
func (s *GameState) drawFromBag(color GemColor) bool {
	for i, cell := range s.Bag {
		if cell.Type == color {
			s.Bag = append(s.Bag[:i:i], s.Bag[i+1:]...)
			return true
		}
	}
	return false
}

// grantFromSupply gives p one gem of color, taken from the bag first and the
// board second, so the total gem count is preserved.
func (s *GameState) grantFromSupply(p Player, color GemColor) bool {
	if s.drawFromBag(color) {
		(*s.Inventories.Of(p))[color]++
		return true
	}
	for _, c := range SpiralOrder {
		if s.Board.At(c).Type == color {
			s.takeFromBoard(p, c)
			return true
		}
	}
	return false
}

// hasTakeable reports whether any non-gold gem is on the board.
func (s *GameState) hasTakeable() bool {
	for r := range s.Board {
		for c := range s.Board[r] {
			if s.Board[r][c].Type.Takeable() {
				return true
			}
		}
	}
	return false
}

// stealable reports whether p holds a gem an opponent may steal.
func (s *GameState) stealable(p Player) bool {
	inv := s.Inventories.Get(p)
	for _, c := range TokenColors {
		if c.Takeable() && inv[c] > 0 {
			return true
		}
	}
	return false
}

// refillMarket replaces the market slot with the top of its deck, or nil.
func (s *GameState) refillMarket(level, idx int) {
	deck := s.Decks[level-1]
	if len(deck) == 0 {
		s.Market[level-1][idx] = nil
		return
	}
	top := deck[0]
	s.Decks[level-1] = deck[1:]
	s.Market[level-1][idx] = &top
}

// removeReserved removes the card with id from p's reserve.
func (s *GameState) removeReserved(p Player, id string) (Card, bool) {
	res := s.PlayerReserved.Of(p)
	for i, c := range *res {
		if c.ID == id {
			*res = append((*res)[:i:i], (*res)[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}
