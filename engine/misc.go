package engine

import "fmt"

// Debug grants bypass cards but still pass through the turn manager so a
// grant can end the game or open a royal pick. The acting player keeps the
// turn.

func (s *GameState) debugAddCrowns(p Player) error {
	if !p.Valid() {
		return fmt.Errorf("DEBUG_ADD_CROWNS without player")
	}
	*s.ExtraCrowns.Of(p)++
	s.debugFinalize()
	return nil
}

func (s *GameState) debugAddPoints(p Player) error {
	if !p.Valid() {
		return fmt.Errorf("DEBUG_ADD_POINTS without player")
	}
	*s.ExtraPoints.Of(p)++
	s.debugFinalize()
	return nil
}

func (s *GameState) debugAddPrivilege(p Player) error {
	if !p.Valid() {
		return fmt.Errorf("DEBUG_ADD_PRIVILEGE without player")
	}
	s.grantPrivilege(p)
	s.debugFinalize()
	return nil
}

// debugFinalize re-runs the turn end without upkeep. Sub-phases are left
// alone; they finalize on their own.
func (s *GameState) debugFinalize() {
	if s.Mode == ModeIdle {
		s.finalize(s.Turn, nil, true)
	}
}

// peekDeck shows the top cards of a deck until CLOSE_MODAL.
func (s *GameState) peekDeck(level int) error {
	if !validLevel(level) {
		return fmt.Errorf("invalid deck level %d", level)
	}
	deck := s.Decks[level-1]
	n := min(PeekDepth, len(deck))
	s.Modal = &DeckPeek{Level: level, Cards: append([]Card(nil), deck[:n]...)}
	return nil
}
