package engine

import "fmt"

// Announcement is one state change to broadcast to the game room.
type Announcement struct {
	Event  string `json:"event"`
	Player string `json:"player"`
	Text   string `json:"text"`
}

type announcer []Announcement

func (a *announcer) add(event, player, format string, args ...interface{}) {
	*a = append(*a, Announcement{Event: event, Player: player, Text: fmt.Sprintf(format, args...)})
}
