package models

// Game is a lobby row. Status is GameOpen until the roster is seated.
type Game struct {
	Id     string `pg:",pk" json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

type GameCreateDto struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type VerifyGameDto struct {
	Code    string `query:"code"`
	User_id string `query:"user_id"`
}

const (
	GameOpen       = "false"
	GameInProgress = "in progress"
)
