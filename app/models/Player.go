package models

const JailFree = -1

// Player is a roster row: a user seated in a game lobby.
type Player struct {
	User_id  string `pg:",pk" json:"user_id"`
	Game_id  string `pg:",pk" json:"game_id"`
	Username string `json:"username"`
	Active   string `json:"active"`
}

// PlayerState is the live per-player game state. It must stay comparable so
// stores can compare-and-swap whole values.
type PlayerState struct {
	Money      int     `json:"bal"`
	Pos        int     `json:"pos"`
	JailStatus int     `json:"jail"`
	JailCards  [2]bool `json:"jail_cards"`
	Color      string  `json:"color"`
}

func NewPlayerState(money int, color string) PlayerState {
	return PlayerState{
		Money:      money,
		JailStatus: JailFree,
		Color:      color,
	}
}

func (p PlayerState) Jailed() bool {
	return p.JailStatus != JailFree
}

func (p PlayerState) HasJailCard() bool {
	return p.JailCards[DeckChance] || p.JailCards[DeckChest]
}

type PlayerDto struct {
	User_id    string `json:"user_id"`
	Username   string `json:"username"`
	Balance    int    `json:"balance"`
	Pos        int    `json:"pos"`
	Label      string `json:"label"`
	Color      string `json:"color"`
	Properties []int  `json:"properties"`
	Jail       bool   `json:"jail"`
	JailStatus int    `json:"jail_status"`
	JailCards  int    `json:"jail_cards"`
}
