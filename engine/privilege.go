package engine

import "fmt"

// activatePrivilege enters PRIVILEGE_ACTION. One privilege buys
// Effects.PrivilegeGems gems (default 1) and is consumed on the first pick.
func (s *GameState) activatePrivilege() error {
	if err := s.requireMode(ModeIdle); err != nil {
		return err
	}
	p := s.Turn
	pb := s.PlayerBuffs.Get(p)
	if s.Privileges.Get(p) == 0 && !pb.SpecialPrivilege() {
		s.toast("You have no privileges.")
		return nil
	}
	if !s.hasTakeable() {
		s.toast("There are no gems to take.")
		return nil
	}
	s.Mode = ModePrivilegeAction
	s.PrivilegeGemCount = max(pb.Buff.Effects.PrivilegeGems, 1)
	s.PrivilegeSpent = false
	return nil
}

// usePrivilege takes one gem. Normal privileges are spent before the buff's
// special one.
func (s *GameState) usePrivilege(a UsePrivilege) error {
	if err := s.requireMode(ModePrivilegeAction); err != nil {
		return err
	}
	c := Coord{a.R, a.C}
	if !c.InBounds() {
		return fmt.Errorf("coordinate %v is off the board", c)
	}
	if !s.Board.At(c).Type.Takeable() {
		s.toast("Pick a gem that is not gold.")
		return nil
	}
	p := s.Turn
	if !s.PrivilegeSpent {
		if *s.Privileges.Of(p) > 0 {
			*s.Privileges.Of(p)--
		} else {
			pb := s.PlayerBuffs.Of(p)
			st, ok := pb.State.(PeriodicPrivilegeState)
			if !ok || !st.Ready {
				return fmt.Errorf("no privilege left to spend")
			}
			st.Ready = false
			pb.State = st
		}
		s.PrivilegeSpent = true
	}
	s.takeFromBoard(p, c)
	s.PrivilegeGemCount--
	if s.PrivilegeGemCount <= 0 || !s.hasTakeable() {
		s.endPrivilege()
	}
	return nil
}

func (s *GameState) cancelPrivilege() error {
	if err := s.requireMode(ModePrivilegeAction); err != nil {
		return err
	}
	s.endPrivilege()
	return nil
}

func (s *GameState) endPrivilege() {
	s.Mode = ModeIdle
	s.PrivilegeGemCount = 0
	s.PrivilegeSpent = false
}
