package engine

// StepKind identifies a queued continuation.
type StepKind string

const (
	StepBonusGem StepKind = "bonus_gem"
	StepSteal    StepKind = "steal"
	StepDiscard  StepKind = "discard"
	StepFinalize StepKind = "finalize"
	StepIdle     StepKind = "idle"
)

// Step is one pending piece of work in the ability resolution queue. Steps
// run strictly in order; an interactive step whose precondition no longer
// holds is skipped.
type Step struct {
	Kind   StepKind `json:"kind"`
	Player Player   `json:"player,omitempty"`
	Color  GemColor `json:"color,omitempty"`
	Next   Player   `json:"next,omitempty"`
	// Resumed marks a finalize step whose turn end already ran upkeep.
	Resumed bool `json:"resumed,omitempty"`
}

// abilitySteps applies the immediate abilities of card for p and returns the
// interactive steps it queues plus the player who moves after it resolves.
// Resolution order: SCROLL, BONUS_GEM, STEAL, then AGAIN decides next.
func (s *GameState) abilitySteps(card Card, p, next Player) ([]Step, Player) {
	var steps []Step
	if card.Has(AbilityScroll) {
		s.grantPrivilege(p)
	}
	if card.Has(AbilityBonusGem) && card.BonusColor.IsBasic() {
		steps = append(steps, Step{Kind: StepBonusGem, Player: p, Color: card.BonusColor})
	}
	if card.Has(AbilitySteal) {
		steps = append(steps, Step{Kind: StepSteal, Player: p})
	}
	if card.Has(AbilityAgain) {
		next = p
	}
	return steps, next
}

// queue places steps at the front of the continuation queue.
func (s *GameState) queue(steps ...Step) {
	s.Continuations = append(append([]Step(nil), steps...), s.Continuations...)
}

// popFinalize removes the leading finalize step.
func (s *GameState) popFinalize() (Step, bool) {
	if len(s.Continuations) > 0 && s.Continuations[0].Kind == StepFinalize {
		step := s.Continuations[0]
		s.Continuations = s.Continuations[1:]
		return step, true
	}
	return Step{}, false
}

// resume runs the continuation queue until an interactive step needs input
// or the turn is finalized.
func (s *GameState) resume() {
	s.BonusGemTarget = ""
	for len(s.Continuations) > 0 {
		step := s.Continuations[0]
		s.Continuations = s.Continuations[1:]
		switch step.Kind {
		case StepBonusGem:
			if s.Board.Count(step.Color) == 0 {
				continue
			}
			s.Mode = ModeBonusAction
			s.BonusGemTarget = step.Color
			return
		case StepSteal:
			if !s.stealable(step.Player.Opponent()) {
				continue
			}
			s.Mode = ModeStealAction
			return
		case StepDiscard:
			if !HasExcessGems(s, step.Player) {
				continue
			}
			s.Turn = step.Player
			s.Mode = ModeDiscardExcessGems
			return
		case StepIdle:
			if step.Player.Valid() {
				s.Turn = step.Player
			}
			s.Mode = ModeIdle
			return
		case StepFinalize:
			s.finalize(step.Next, nil, step.Resumed)
			return
		}
	}
	s.Mode = ModeIdle
}

// completeTurn queues steps followed by the turn end and resumes. It is the
// common tail of every handler that ends a move.
func (s *GameState) completeTurn(next Player, steps ...Step) {
	steps = append(steps, Step{Kind: StepFinalize, Next: next})
	s.queue(steps...)
	s.resume()
}
