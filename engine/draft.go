package engine

import (
	"fmt"
	"slices"
)

// genesis builds the initial state. With draft set the game opens in
// DRAFT_PHASE with the second player picking first.
func (e *Engine) genesis(setup Setup, draft bool, pool []string) *GameState {
	s := newGameState(setup)
	s.Seq = 1
	if draft {
		s.Mode = ModeDraft
		s.Turn = P2
		s.Draft = &Draft{Pool: slices.Clone(pool)}
	}
	return s
}

// selectBuff assigns a buff to the picking player. Once both players have
// picked, setup effects are applied and the game starts with P1.
func (e *Engine) selectBuff(s *GameState, a SelectBuff) error {
	if err := s.requireMode(ModeDraft); err != nil {
		return err
	}
	if a.BuffID == "" {
		return fmt.Errorf("SELECT_BUFF without buffId")
	}
	if e.buffs == nil {
		return fmt.Errorf("no buff catalog configured")
	}
	buff, ok := e.buffs.Buff(a.BuffID)
	if !ok {
		return fmt.Errorf("unknown buff %q", a.BuffID)
	}
	if s.Draft == nil {
		s.Draft = &Draft{}
	}
	if len(s.Draft.Pool) > 0 {
		i := slices.Index(s.Draft.Pool, a.BuffID)
		if i < 0 {
			s.toast("That buff is not available.")
			return nil
		}
		s.Draft.Pool = slices.Delete(s.Draft.Pool, i, i+1)
	}

	p := s.Turn
	pb := PlayerBuff{Buff: buff, State: initialBuffState(buff, a.RandomColor)}
	*s.PlayerBuffs.Of(p) = pb
	if color, ok := pb.DiscountColor(); ok {
		marker := Card{
			ID:         "buff-" + string(p) + "-" + string(color),
			BonusColor: color,
			BonusCount: 1,
			IsBuff:     true,
		}
		*s.PlayerTableau.Of(p) = append(*s.PlayerTableau.Of(p), marker)
	}
	*s.Draft.InitRandoms.Of(p) = slices.Clone(a.InitRandoms)
	s.feedback(p, FeedbackBuff, buff.ID)

	if p == P2 {
		s.Turn = P1
		return nil
	}

	var steps []Step
	for _, q := range [2]Player{P1, P2} {
		s.applyBuffSetup(q)
	}
	for _, q := range [2]Player{P1, P2} {
		if HasExcessGems(s, q) {
			steps = append(steps, Step{Kind: StepDiscard, Player: q})
		}
	}
	steps = append(steps, Step{Kind: StepIdle, Player: P1})
	s.Draft = nil
	s.queue(steps...)
	s.resume()
	return nil
}

// applyBuffSetup grants p's one-time starting resources. Gems come from the
// bag first so the total supply is preserved.
func (s *GameState) applyBuffSetup(p Player) {
	e := s.PlayerBuffs.Get(p).Buff.Effects
	for i := 0; i < e.StartPrivileges; i++ {
		s.grantPrivilege(p)
	}
	randoms := s.Draft.InitRandoms.Get(p)
	for i := 0; i < e.StartRandomGems; i++ {
		color := BasicColors[i%len(BasicColors)]
		if i < len(randoms) && randoms[i].IsBasic() {
			color = randoms[i]
		}
		if !s.grantFromSupply(p, color) {
			if c, ok := s.drawAnyBasic(""); ok {
				(*s.Inventories.Of(p))[c]++
			}
		}
	}
	for i := 0; i < e.StartGold; i++ {
		s.grantFromSupply(p, GemGold)
	}
	for i := 0; i < e.StartPearls; i++ {
		s.grantFromSupply(p, GemPearl)
	}
}
