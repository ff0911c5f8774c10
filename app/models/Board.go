package models

type SpaceKind int

const (
	SpaceSimple SpaceKind = iota
	SpaceDrawCard
	SpaceGoToJail
	SpaceGo
	SpaceTax
	SpaceTrainStation
	SpaceUtility
	SpaceRoad
)

func (k SpaceKind) String() string {
	switch k {
	case SpaceSimple:
		return "simple"
	case SpaceDrawCard:
		return "card"
	case SpaceGoToJail:
		return "gotojail"
	case SpaceGo:
		return "go"
	case SpaceTax:
		return "tax"
	case SpaceTrainStation:
		return "station"
	case SpaceUtility:
		return "utility"
	case SpaceRoad:
		return "road"
	}
	return "unknown"
}

type DeckType int

const (
	DeckChance DeckType = iota
	DeckChest
)

func (d DeckType) String() string {
	if d == DeckChest {
		return "chest"
	}
	return "chance"
}

// Space is a tagged union over the board space variants. Only the fields
// belonging to Kind are meaningful.
type Space struct {
	Kind SpaceKind `json:"kind"`
	Name string    `json:"name"`

	Deck   DeckType `json:"deck,omitempty"`   // SpaceDrawCard
	Bonus  int      `json:"bonus,omitempty"`  // SpaceGo
	Amount int      `json:"amount,omitempty"` // SpaceTax
	Group  string   `json:"group,omitempty"`  // SpaceRoad

	// property variants
	Houses    int    `json:"houses"`
	Owner     string `json:"owner"`
	Mortgaged bool   `json:"mortgaged"`
}

func (s Space) IsProperty() bool {
	switch s.Kind {
	case SpaceTrainStation, SpaceUtility, SpaceRoad:
		return true
	}
	return false
}

func (s Space) Owned() bool {
	return s.IsProperty() && s.Owner != ""
}

type TitleDeed struct {
	Posistion int   `json:"position"`
	Price     int   `json:"price"`
	Rent      []int `json:"rent"`
	Mortgage  int   `json:"mortgage"`
	HouseCost int   `json:"housecost"`
	HotelCost int   `json:"hotelcost"`
}

type CardEffect string

const (
	EffectCollect     CardEffect = "collect"
	EffectPay         CardEffect = "pay"
	EffectAdvance     CardEffect = "advance"
	EffectBack        CardEffect = "back"
	EffectJail        CardEffect = "jail"
	EffectJailCard    CardEffect = "jailcard"
	EffectCollectEach CardEffect = "collectEach"
	EffectPayEach     CardEffect = "payEach"
)

func (e CardEffect) Valid() bool {
	switch e {
	case EffectCollect, EffectPay, EffectAdvance, EffectBack, EffectJail,
		EffectJailCard, EffectCollectEach, EffectPayEach:
		return true
	}
	return false
}

type Card struct {
	Info   string     `json:"info"`
	Effect CardEffect `json:"effect"`
	Value  int        `json:"value"`
}

type SpaceDto struct {
	Label     string     `json:"label"`
	Position  int        `json:"position"`
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Group     string     `json:"group,omitempty"`
	Owner     string     `json:"owner,omitempty"`
	Houses    int        `json:"houses"`
	Mortgaged bool       `json:"mortgaged"`
	Rent      int        `json:"rent"`
	Deed      *TitleDeed `json:"deed,omitempty"`
}
