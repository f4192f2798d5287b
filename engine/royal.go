package engine

import "fmt"

// selectRoyalCard claims a royal card and resolves its abilities before the
// suspended turn end is re-evaluated.
func (s *GameState) selectRoyalCard(a SelectRoyalCard) error {
	if err := s.requireMode(ModeSelectRoyal); err != nil {
		return err
	}
	idx := -1
	for i, c := range s.RoyalDeck {
		if c.ID == a.Card.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("royal card %s is not in the pool", a.Card.ID)
	}
	p := s.Turn
	card := s.RoyalDeck[idx]
	s.RoyalDeck = append(s.RoyalDeck[:idx:idx], s.RoyalDeck[idx+1:]...)
	*s.PlayerRoyals.Of(p) = append(*s.PlayerRoyals.Of(p), card)
	s.feedback(p, FeedbackRoyal, card.ID)

	fin, ok := s.popFinalize()
	if !ok {
		fin = Step{Kind: StepFinalize, Next: p.Opponent(), Resumed: true}
	}
	steps, next := s.abilitySteps(card, p, fin.Next)
	fin.Next = next
	s.queue(append(steps, fin)...)
	s.resume()
	return nil
}

// forceRoyalSelection opens a royal pick outside the milestone rules. The
// acting player keeps the turn afterwards.
func (s *GameState) forceRoyalSelection() error {
	if err := s.requireMode(ModeIdle); err != nil {
		return err
	}
	if len(s.RoyalDeck) == 0 {
		s.toast("No royal cards left.")
		return nil
	}
	s.suspend(ModeSelectRoyal, s.Turn)
	return nil
}
