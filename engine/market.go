package engine

import "fmt"

// ---------------------------------------------------------------------------
// Card lookup
// ---------------------------------------------------------------------------

func validLevel(level int) bool { return level >= 1 && level <= 3 }

// marketSlot returns the card in the market slot, checking that it is the
// card the action refers to.
func (s *GameState) marketSlot(level, idx int, id string) (*Card, error) {
	if !validLevel(level) {
		return nil, fmt.Errorf("invalid market level %d", level)
	}
	row := s.Market[level-1]
	if idx < 0 || idx >= len(row) {
		return nil, fmt.Errorf("invalid market index %d for level %d", idx, level)
	}
	if row[idx] == nil {
		return nil, fmt.Errorf("market slot %d/%d is empty", level, idx)
	}
	if id != "" && row[idx].ID != id {
		return nil, fmt.Errorf("market slot %d/%d holds %s, not %s", level, idx, row[idx].ID, id)
	}
	return row[idx], nil
}

// locateCard resolves a purchase target from the market or p's reserve.
func (s *GameState) locateCard(p Player, card Card, source CardSource, mi *MarketRef) (Card, error) {
	switch source {
	case SourceMarket:
		if mi == nil {
			return Card{}, fmt.Errorf("market purchase without marketInfo")
		}
		c, err := s.marketSlot(mi.Level, mi.Idx, card.ID)
		if err != nil {
			return Card{}, err
		}
		return *c, nil
	case SourceReserved:
		for _, c := range s.PlayerReserved.Get(p) {
			if c.ID == card.ID {
				return c, nil
			}
		}
		return Card{}, fmt.Errorf("card %s is not reserved by %s", card.ID, p)
	default:
		return Card{}, fmt.Errorf("unknown card source %q", source)
	}
}

// ---------------------------------------------------------------------------
// Buying
// ---------------------------------------------------------------------------

// initiateBuyJoker parks a joker purchase until its colour is chosen.
func (s *GameState) initiateBuyJoker(a InitiateBuyJoker) error {
	if err := s.requireMode(ModeIdle); err != nil {
		return err
	}
	p := s.Turn
	card, err := s.locateCard(p, a.Card, a.Source, a.MarketInfo)
	if err != nil {
		return err
	}
	if !card.IsJoker() {
		return fmt.Errorf("card %s is not a joker", card.ID)
	}
	tx := CalculateTransaction(card, s.Inventories.Get(p), s.PlayerTableau.Get(p), s.PlayerBuffs.Get(p))
	if !tx.Affordable {
		s.toast("You cannot afford this card.")
		return nil
	}
	pending := &PendingBuy{Card: card, Source: a.Source}
	if a.MarketInfo != nil {
		mi := *a.MarketInfo
		pending.MarketInfo = &mi
	}
	s.PendingBuy = pending
	s.Mode = ModeSelectCardColor
	return nil
}

// buyCard pays for a card, moves it to the tableau, applies purchase buffs
// and the card's abilities, then ends the turn.
func (s *GameState) buyCard(a BuyCard) error {
	p := s.Turn
	var (
		card Card
		src  CardSource
		mi   *MarketRef
		err  error
	)
	switch s.Mode {
	case ModeIdle:
		card, err = s.locateCard(p, a.Card, a.Source, a.MarketInfo)
		if err != nil {
			return err
		}
		if card.IsJoker() {
			s.toast("Choose a colour for this card first.")
			return nil
		}
		src, mi = a.Source, a.MarketInfo
	case ModeSelectCardColor:
		if s.PendingBuy == nil {
			return fmt.Errorf("SELECT_CARD_COLOR without a pending purchase")
		}
		if !a.Card.BonusColor.IsBasic() {
			s.toast("Pick one of the five card colours.")
			return nil
		}
		card = s.PendingBuy.Card
		card.BonusColor = a.Card.BonusColor
		src, mi = s.PendingBuy.Source, s.PendingBuy.MarketInfo
	default:
		return fmt.Errorf("action not valid in mode %s", s.Mode)
	}

	tx := CalculateTransaction(card, s.Inventories.Get(p), s.PlayerTableau.Get(p), s.PlayerBuffs.Get(p))
	if !tx.Affordable {
		s.toast("You cannot afford this card.")
		s.PendingBuy = nil
		s.Mode = ModeIdle
		return nil
	}

	for _, color := range TokenColors {
		s.returnToBag(p, color, tx.Paid[color])
	}
	s.returnToBag(p, GemGold, tx.GoldCost)

	switch src {
	case SourceMarket:
		s.refillMarket(mi.Level, mi.Idx)
	case SourceReserved:
		s.removeReserved(p, card.ID)
	}
	*s.PlayerTableau.Of(p) = append(*s.PlayerTableau.Of(p), card)
	s.PendingBuy = nil

	e := s.PlayerBuffs.Get(p).Buff.Effects
	if e.RefundMinLevel > 0 && card.Level >= e.RefundMinLevel {
		s.refund(p, tx.Paid)
	}
	if e.PrivilegeOnL3 && card.Level == 3 {
		s.grantPrivilege(p)
	}
	if e.BuyBonusGem && card.Level >= 2 {
		var want GemColor
		if a.Randoms != nil {
			want = a.Randoms.BonusColor
		}
		if color, ok := s.drawAnyBasic(want); ok {
			(*s.Inventories.Of(p))[color]++
			s.feedback(p, FeedbackBuff, "bonus "+string(color))
		}
	}

	steps, next := s.abilitySteps(card, p, p.Opponent())
	s.completeTurn(next, steps...)
	return nil
}

// refund gives back one gem of the colour p paid most of.
func (s *GameState) refund(p Player, paid map[GemColor]int) {
	var best GemColor
	for _, color := range TokenColors {
		if paid[color] > paid[best] {
			best = color
		}
	}
	if best == "" || !s.drawFromBag(best) {
		return
	}
	(*s.Inventories.Of(p))[best]++
	s.feedback(p, FeedbackRefund, string(best))
}

// ---------------------------------------------------------------------------
// Reserving
// ---------------------------------------------------------------------------

func (s *GameState) reserveFull(p Player) bool {
	if len(s.PlayerReserved.Get(p)) >= MaxReserved {
		s.toast(fmt.Sprintf("You can reserve at most %d cards.", MaxReserved))
		return true
	}
	return false
}

// initiateReserve starts reserving a market card. When gold is on the board
// the player must pick it (or skip) with RESERVE_CARD first.
func (s *GameState) initiateReserve(a InitiateReserve) error {
	if err := s.requireMode(ModeIdle); err != nil {
		return err
	}
	p := s.Turn
	slot, err := s.marketSlot(a.Level, a.Idx, a.Card.ID)
	if err != nil {
		return err
	}
	if s.reserveFull(p) {
		return nil
	}
	if s.Board.Count(GemGold) == 0 {
		s.reserve(p, *slot, &MarketRef{Level: a.Level, Idx: a.Idx}, nil)
		return nil
	}
	card := *slot
	s.PendingReserve = &PendingReserve{Card: &card, Level: a.Level, Idx: a.Idx}
	s.Mode = ModeReserveWaitingGem
	return nil
}

// initiateReserveDeck starts reserving the top card of a deck.
func (s *GameState) initiateReserveDeck(a InitiateReserveDeck) error {
	if err := s.requireMode(ModeIdle); err != nil {
		return err
	}
	if !validLevel(a.Level) {
		return fmt.Errorf("invalid deck level %d", a.Level)
	}
	p := s.Turn
	if len(s.Decks[a.Level-1]) == 0 {
		s.toast("That deck is empty.")
		return nil
	}
	if s.reserveFull(p) {
		return nil
	}
	if s.Board.Count(GemGold) == 0 {
		s.reserve(p, s.Decks[a.Level-1][0], &MarketRef{Level: a.Level, Idx: -1}, nil)
		return nil
	}
	s.PendingReserve = &PendingReserve{Level: a.Level, Idx: -1, FromDeck: true}
	s.Mode = ModeReserveWaitingGem
	return nil
}

func (s *GameState) cancelReserve() error {
	if err := s.requireMode(ModeReserveWaitingGem); err != nil {
		return err
	}
	s.PendingReserve = nil
	s.Mode = ModeIdle
	return nil
}

// reserveCard completes a market reservation.
func (s *GameState) reserveCard(a ReserveCard) error {
	if err := s.requireMode(ModeIdle, ModeReserveWaitingGem); err != nil {
		return err
	}
	p := s.Turn
	slot, err := s.marketSlot(a.Level, a.Idx, a.Card.ID)
	if err != nil {
		return err
	}
	if s.reserveFull(p) {
		return nil
	}
	if !s.goldAt(a.GoldCoords) {
		return nil
	}
	s.reserve(p, *slot, &MarketRef{Level: a.Level, Idx: a.Idx}, a.GoldCoords)
	return nil
}

// reserveDeck completes a deck reservation.
func (s *GameState) reserveDeck(a ReserveDeck) error {
	if err := s.requireMode(ModeIdle, ModeReserveWaitingGem); err != nil {
		return err
	}
	if !validLevel(a.Level) {
		return fmt.Errorf("invalid deck level %d", a.Level)
	}
	p := s.Turn
	if len(s.Decks[a.Level-1]) == 0 {
		s.toast("That deck is empty.")
		return nil
	}
	if s.reserveFull(p) {
		return nil
	}
	if !s.goldAt(a.GoldCoords) {
		return nil
	}
	s.reserve(p, s.Decks[a.Level-1][0], &MarketRef{Level: a.Level, Idx: -1}, a.GoldCoords)
	return nil
}

// goldAt reports whether c is unset or points at a gold gem, toasting
// otherwise.
func (s *GameState) goldAt(c *Coord) bool {
	if c == nil {
		return true
	}
	if !c.InBounds() || s.Board.At(*c).Type != GemGold {
		s.toast("Pick a gold gem.")
		return false
	}
	return true
}

// reserve moves card to p's reserve, takes the optional gold and ends the
// turn. A slot index of -1 means the card is the top of its deck.
func (s *GameState) reserve(p Player, card Card, slot *MarketRef, gold *Coord) {
	*s.PlayerReserved.Of(p) = append(*s.PlayerReserved.Of(p), card)
	if slot.Idx >= 0 {
		s.refillMarket(slot.Level, slot.Idx)
	} else {
		s.Decks[slot.Level-1] = s.Decks[slot.Level-1][1:]
	}
	if gold != nil {
		s.takeFromBoard(p, *gold)
	}
	pb := s.PlayerBuffs.Of(p)
	if st, ok := pb.State.(ReserveState); ok && !st.HasReserved {
		pb.State = ReserveState{HasReserved: true}
		s.grantPrivilege(p)
		s.feedback(p, FeedbackBuff, "first reserve")
	}
	s.PendingReserve = nil
	s.completeTurn(p.Opponent())
}
