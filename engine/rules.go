package engine

const (
	BoardSize      = 5
	MaxReserved    = 3
	MaxPrivileges  = 3
	DefaultGemCap  = 10
	DefaultPoints  = 20
	DefaultCrowns  = 10
	DefaultColorPt = 10
	PeekDepth      = 3
)

// MarketSizes is the fixed number of visible slots per level (index = level-1).
var MarketSizes = [3]int{5, 4, 3}

// Milestone crown thresholds.
const (
	FirstRoyalCrowns  = 3
	SecondRoyalCrowns = 6
)

// SpiralOrder is the fixed fill order used when replenishing the board:
// from the centre outward, turning clockwise.
var SpiralOrder = [BoardSize * BoardSize]Coord{
	{2, 2}, {3, 2}, {3, 1}, {2, 1}, {1, 1}, {1, 2}, {1, 3}, {2, 3}, {3, 3},
	{4, 3}, {4, 2}, {4, 1}, {4, 0}, {3, 0}, {2, 0}, {1, 0}, {0, 0},
	{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4},
}

// Effects are the rule modifiers a buff applies. Zero values mean "no change".
type Effects struct {
	// Passive
	GemCap          int  `json:"gemCap,omitempty"`
	DiscountAny     int  `json:"discountAny,omitempty"` // level 2 and 3 purchases
	L3Discount      int  `json:"l3Discount,omitempty"`
	GoldBuff        bool `json:"goldBuff,omitempty"` // halves gold owed on level 3
	ColorDiscount   bool `json:"colorDiscount,omitempty"`
	WinPoints       int  `json:"winPoints,omitempty"`
	WinCrowns       int  `json:"winCrowns,omitempty"`
	WinColorPoints  int  `json:"winColorPoints,omitempty"`
	DisableColorWin bool `json:"disableColorWin,omitempty"`
	PointsPerCards  int  `json:"pointsPerCards,omitempty"`

	// Active
	PrivilegeGems     int  `json:"privilegeGems,omitempty"`
	PrivilegeEvery    int  `json:"privilegeEvery,omitempty"`
	ReplenishBonusGem bool `json:"replenishBonusGem,omitempty"`
	StealEvery        int  `json:"stealEvery,omitempty"`
	ReserveBonus      bool `json:"reserveBonus,omitempty"`
	RefundMinLevel    int  `json:"refundMinLevel,omitempty"`
	PrivilegeOnL3     bool `json:"privilegeOnL3,omitempty"`
	BuyBonusGem       bool `json:"buyBonusGem,omitempty"`

	// Setup
	StartPrivileges int `json:"startPrivileges,omitempty"`
	StartRandomGems int `json:"startRandomGems,omitempty"`
	StartGold       int `json:"startGold,omitempty"`
	StartPearls     int `json:"startPearls,omitempty"`
}

// Buff is an asymmetric starting modifier chosen during the draft.
type Buff struct {
	ID          string  `json:"id"`
	Level       int     `json:"level"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Effects     Effects `json:"effects"`
}

// NoBuffID identifies the neutral buff used when the draft is skipped.
const NoBuffID = "none"

// NoBuff is the neutral default buff.
var NoBuff = Buff{ID: NoBuffID, Name: "None"}

// BuffLookup resolves buff ids against the injected catalog.
type BuffLookup interface {
	Buff(id string) (Buff, bool)
}

// ---------------------------------------------------------------------------
// Buff state: one variant per buff family.
// ---------------------------------------------------------------------------

// BuffState is the per-player memory of a buff.
//
//sumtype:decl
type BuffState interface {
	Kind() string
	buffState()
}

// NoState is used by buffs without memory.
type NoState struct{}

// ReplenishState counts replenishes for buffs that trigger on them.
type ReplenishState struct {
	Count int `json:"refillCount"`
}

// PeriodicPrivilegeState counts upcoming turns towards the next special,
// non-stealable privilege.
type PeriodicPrivilegeState struct {
	Turns int  `json:"turns"`
	Ready bool `json:"specialPrivilege"`
}

// ReserveState remembers whether the one-shot reserve bonus was used.
type ReserveState struct {
	HasReserved bool `json:"hasReserved"`
}

// ColorDiscountState holds the colour assigned at selection time.
type ColorDiscountState struct {
	Color GemColor `json:"discountColor"`
}

func (NoState) Kind() string                { return "none" }
func (ReplenishState) Kind() string         { return "replenish" }
func (PeriodicPrivilegeState) Kind() string { return "periodic_privilege" }
func (ReserveState) Kind() string           { return "reserve" }
func (ColorDiscountState) Kind() string     { return "color_discount" }

func (NoState) buffState()                {}
func (ReplenishState) buffState()         {}
func (PeriodicPrivilegeState) buffState() {}
func (ReserveState) buffState()           {}
func (ColorDiscountState) buffState()     {}

// initialBuffState picks the state variant for b. randomColor is only read
// by colour-discount buffs.
func initialBuffState(b Buff, randomColor GemColor) BuffState {
	e := b.Effects
	switch {
	case e.ColorDiscount:
		if !randomColor.IsBasic() {
			randomColor = BasicColors[0]
		}
		return ColorDiscountState{Color: randomColor}
	case e.PrivilegeEvery > 0:
		return PeriodicPrivilegeState{}
	case e.ReplenishBonusGem || e.StealEvery > 0:
		return ReplenishState{}
	case e.ReserveBonus:
		return ReserveState{}
	default:
		return NoState{}
	}
}

// PlayerBuff is a player's assigned buff and its memory.
type PlayerBuff struct {
	Buff  Buff      `json:"buff"`
	State BuffState `json:"state"`
}

// DiscountColor returns the buff's assigned discount colour, if any.
func (pb PlayerBuff) DiscountColor() (GemColor, bool) {
	if st, ok := pb.State.(ColorDiscountState); ok && st.Color.IsBasic() {
		return st.Color, true
	}
	return "", false
}

// SpecialPrivilege reports whether a non-stealable privilege is available.
func (pb PlayerBuff) SpecialPrivilege() bool {
	st, ok := pb.State.(PeriodicPrivilegeState)
	return ok && st.Ready
}

func neutralBuff() PlayerBuff { return PlayerBuff{Buff: NoBuff, State: NoState{}} }
