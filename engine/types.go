package engine

// GemColor identifies a token kind. GemEmpty marks a board cell with no gem.
type GemColor string

const (
	GemBlue  GemColor = "blue"
	GemWhite GemColor = "white"
	GemGreen GemColor = "green"
	GemBlack GemColor = "black"
	GemRed   GemColor = "red"
	GemPearl GemColor = "pearl"
	GemGold  GemColor = "gold"
	GemEmpty GemColor = "empty"
)

// BasicColors lists the five card colours in their fixed iteration order.
var BasicColors = [...]GemColor{GemBlue, GemWhite, GemGreen, GemBlack, GemRed}

// TokenColors lists every physical token kind held in an inventory.
var TokenColors = [...]GemColor{GemBlue, GemWhite, GemGreen, GemBlack, GemRed, GemPearl, GemGold}

// IsBasic reports whether c is one of the five card colours.
func (c GemColor) IsBasic() bool {
	switch c {
	case GemBlue, GemWhite, GemGreen, GemBlack, GemRed:
		return true
	}
	return false
}

// IsToken reports whether c is a physical gem (anything but GemEmpty).
func (c GemColor) IsToken() bool { return c.IsBasic() || c == GemPearl || c == GemGold }

// Takeable reports whether a gem of this colour can be picked up from the
// board by a gem action, a privilege or a steal. Gold never can.
func (c GemColor) Takeable() bool { return c.IsBasic() || c == GemPearl }

// Cell is one board position or one gem in the bag.
type Cell struct {
	Type GemColor `json:"type"`
	UID  string   `json:"uid"`
}

// Coord addresses a board cell.
type Coord struct {
	R int `json:"r"`
	C int `json:"c"`
}

// InBounds reports whether the coordinate lies on the 5x5 board.
func (c Coord) InBounds() bool {
	return c.R >= 0 && c.R < BoardSize && c.C >= 0 && c.C < BoardSize
}

// Board is the fixed 5x5 gem grid.
type Board [BoardSize][BoardSize]Cell

// At returns a pointer to the cell at c. The caller checks bounds.
func (b *Board) At(c Coord) *Cell { return &b[c.R][c.C] }

// Count returns the number of cells holding a gem of the given colour.
func (b *Board) Count(color GemColor) int {
	n := 0
	for r := range b {
		for c := range b[r] {
			if b[r][c].Type == color {
				n++
			}
		}
	}
	return n
}

// Gems returns the number of non-empty cells.
func (b *Board) Gems() int {
	n := 0
	for r := range b {
		for c := range b[r] {
			if b[r][c].Type != GemEmpty {
				n++
			}
		}
	}
	return n
}

// Player identifies one of the two seats.
type Player string

const (
	P1 Player = "p1"
	P2 Player = "p2"
)

// Opponent returns the other seat.
func (p Player) Opponent() Player {
	if p == P1 {
		return P2
	}
	return P1
}

// Valid reports whether p names a seat.
func (p Player) Valid() bool { return p == P1 || p == P2 }

// Pair holds one value per player.
type Pair[T any] struct {
	P1 T `json:"p1"`
	P2 T `json:"p2"`
}

// Of returns a pointer to the value for p.
func (pr *Pair[T]) Of(p Player) *T {
	if p == P2 {
		return &pr.P2
	}
	return &pr.P1
}

// Get returns the value for p.
func (pr Pair[T]) Get(p Player) T {
	if p == P2 {
		return pr.P2
	}
	return pr.P1
}

// Inventory maps each token kind to a non-negative count.
type Inventory map[GemColor]int

// NewInventory returns an inventory with every token kind present at zero.
func NewInventory() Inventory {
	inv := make(Inventory, len(TokenColors))
	for _, c := range TokenColors {
		inv[c] = 0
	}
	return inv
}

// Total returns the number of gems held, gold and pearls included.
func (inv Inventory) Total() int {
	n := 0
	for _, c := range TokenColors {
		n += inv[c]
	}
	return n
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Ability is a card effect triggered when the card is acquired.
type Ability string

const (
	AbilityAgain    Ability = "AGAIN"
	AbilityBonusGem Ability = "BONUS_GEM"
	AbilitySteal    Ability = "STEAL"
	AbilityScroll   Ability = "SCROLL"
)

// Card is an immutable development or royal card instance.
//
// Level 0 marks a card that is not part of a deck: royal cards and the
// synthetic tableau markers that represent a colour-discount buff (IsBuff).
type Card struct {
	ID         string           `json:"id"`
	Level      int              `json:"level"`
	Cost       map[GemColor]int `json:"cost,omitempty"`
	Points     int              `json:"points"`
	BonusColor GemColor         `json:"bonusColor,omitempty"`
	BonusCount int              `json:"bonusCount"`
	Crowns     int              `json:"crowns"`
	Abilities  []Ability        `json:"ability,omitempty"`
	IsBuff     bool             `json:"isBuff,omitempty"`
}

// Has reports whether the card carries ability a.
func (c Card) Has(a Ability) bool {
	for _, x := range c.Abilities {
		if x == a {
			return true
		}
	}
	return false
}

// IsJoker reports whether the buyer chooses the card's bonus colour.
func (c Card) IsJoker() bool { return c.BonusColor == GemGold }

// GameMode is the current sub-phase of the turn state machine.
type GameMode string

const (
	ModeDraft             GameMode = "DRAFT_PHASE"
	ModeIdle              GameMode = "IDLE"
	ModeReserveWaitingGem GameMode = "RESERVE_WAITING_GEM"
	ModePrivilegeAction   GameMode = "PRIVILEGE_ACTION"
	ModeBonusAction       GameMode = "BONUS_ACTION"
	ModeStealAction       GameMode = "STEAL_ACTION"
	ModeSelectCardColor   GameMode = "SELECT_CARD_COLOR"
	ModeSelectRoyal       GameMode = "SELECT_ROYAL"
	ModeDiscardExcessGems GameMode = "DISCARD_EXCESS_GEMS"
)

// CardSource says where a purchased card comes from.
type CardSource string

const (
	SourceMarket   CardSource = "market"
	SourceReserved CardSource = "reserved"
)

// MarketRef addresses a market slot.
type MarketRef struct {
	Level int `json:"level"`
	Idx   int `json:"idx"`
}

// PendingReserve carries a reservation waiting for the gold pick.
type PendingReserve struct {
	Card     *Card `json:"card,omitempty"`
	Level    int   `json:"level"`
	Idx      int   `json:"idx"`
	FromDeck bool  `json:"fromDeck,omitempty"`
}

// PendingBuy carries a joker purchase waiting for its colour.
type PendingBuy struct {
	Card       Card       `json:"card"`
	Source     CardSource `json:"source"`
	MarketInfo *MarketRef `json:"marketInfo,omitempty"`
}

// Milestones records which crown rewards a player has claimed.
type Milestones struct {
	Three bool `json:"3"`
	Six   bool `json:"6"`
}

// DeckPeek is the read-only deck reveal shown until CLOSE_MODAL.
type DeckPeek struct {
	Level int    `json:"level"`
	Cards []Card `json:"cards"`
}

// Draft tracks the pre-game buff selection.
type Draft struct {
	Pool        []string         `json:"pool"`
	InitRandoms Pair[[]GemColor] `json:"initRandoms"`
}

// Setup is the genesis content produced by the deck and gem generator.
type Setup struct {
	Board     Board      `json:"board"`
	Bag       []Cell     `json:"bag"`
	Decks     [3][]Card  `json:"decks"`
	Market    [3][]*Card `json:"market"`
	RoyalDeck []Card     `json:"royalDeck"`
}
