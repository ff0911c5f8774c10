package socket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/engine"
)

// Request is the JSON payload of every game event.
type Request struct {
	GameID string   `json:"game_id"`
	Token  string   `json:"token"`
	Args   []string `json:"args"`
}

func parseRequest(raw string) (Request, error) {
	var req Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return req, fmt.Errorf("%w: bad payload", models.ErrInvalidFormat)
	}
	if req.GameID == "" {
		return req, fmt.Errorf("%w: game_id is required", models.ErrInvalidFormat)
	}
	return req, nil
}

// Reply is what a command produced: announcements for the game room and an
// optional private answer for the caller.
type Reply struct {
	Announcements []engine.Announcement
	Private       string
}

// commandEvents are the socket events routed through Dispatch.
var commandEvents = []string{
	"roll-dice", "request-buy", "decline-buy", "bid", "pass-auction", "pay-rent",
	"pay-tax", "pay-each", "pay-out-jail", "use-jail-card", "buy-house",
	"sell-house", "mortgage", "unmortgage", "end-turn", "trade",
}

type action func(player string) ([]engine.Announcement, error)
type propertyAction func(player string, pos int) ([]engine.Announcement, error)

// Dispatch runs one player command against g.
func Dispatch(g *engine.Game, player, event string, args []string) (Reply, error) {
	simple := map[string]action{
		"roll-dice":     g.Roll,
		"request-buy":   g.Buy,
		"decline-buy":   g.Decline,
		"pass-auction":  g.PassAuction,
		"pay-rent":      g.PayRent,
		"pay-tax":       g.PayTax,
		"pay-each":      g.PayEach,
		"pay-out-jail":  g.PayJailFine,
		"use-jail-card": g.UseJailCard,
		"end-turn":      g.EndTurn,
	}
	onProperty := map[string]propertyAction{
		"buy-house":  g.BuildHouse,
		"sell-house": g.SellHouse,
		"mortgage":   g.Mortgage,
		"unmortgage": g.Unmortgage,
	}

	if fn, ok := simple[event]; ok {
		out, err := fn(player)
		return Reply{Announcements: out}, err
	}
	if fn, ok := onProperty[event]; ok {
		if len(args) != 1 {
			return Reply{}, fmt.Errorf("%w: %s needs a property label", models.ErrInvalidFormat, event)
		}
		pos, err := g.Board.PositionFromLabel(args[0])
		if err != nil {
			return Reply{}, err
		}
		out, err := fn(player, pos)
		return Reply{Announcements: out}, err
	}
	switch event {
	case "bid":
		amount, err := bidAmount(args)
		if err != nil {
			return Reply{}, err
		}
		out, err := g.Bid(player, amount)
		return Reply{Announcements: out}, err
	case "trade":
		return dispatchTrade(g, player, args)
	}
	return Reply{}, fmt.Errorf("%w: unknown command %q", models.ErrInvalidFormat, event)
}

func dispatchTrade(g *engine.Game, player string, args []string) (Reply, error) {
	if len(args) == 0 {
		return Reply{}, fmt.Errorf("%w: trade needs a sub-command", models.ErrInvalidFormat)
	}
	sub, rest := strings.ToLower(args[0]), args[1:]

	switch sub {
	case "give", "take":
		edit := g.TradeGive
		if sub == "take" {
			edit = g.TradeTake
		}
		t, err := edit(player, rest)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Private: t.String()}, nil
	case "offer":
		to := ""
		if len(rest) > 0 {
			to = rest[0]
		}
		t, err := g.TradeOffer(player, to)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Private: fmt.Sprintf("Offered %s", t)}, nil
	case "show":
		idx, err := optionalIndex(rest)
		if err != nil {
			return Reply{}, err
		}
		text, err := g.TradeShow(player, idx)
		return Reply{Private: text}, err
	case "close":
		idx, err := optionalIndex(rest)
		if err != nil {
			return Reply{}, err
		}
		if err := g.TradeClose(player, idx); err != nil {
			return Reply{}, err
		}
		return Reply{Private: "Trade closed"}, nil
	}

	idx, err := requiredIndex(rest)
	if err != nil {
		return Reply{}, err
	}
	switch sub {
	case "accept":
		out, err := g.TradeAccept(player, idx)
		return Reply{Announcements: out}, err
	case "reject":
		_, err := g.TradeReject(player, idx)
		return Reply{Private: fmt.Sprintf("Trade #%d rejected", idx)}, err
	case "copy", "recall":
		redraft := g.TradeCopy
		if sub == "recall" {
			redraft = g.TradeRecall
		}
		t, err := redraft(player, idx)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Private: t.String()}, nil
	}
	return Reply{}, fmt.Errorf("%w: unknown trade command %q", models.ErrInvalidFormat, sub)
}

func optionalIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return requiredIndex(args)
}

func requiredIndex(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected a trade number", models.ErrInvalidFormat)
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || idx <= 0 {
		return 0, fmt.Errorf("%w: %q is not a trade number", models.ErrInvalidFormat, args[0])
	}
	return idx, nil
}

func bidAmount(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: bid needs an amount", models.ErrInvalidFormat)
	}
	amount, err := strconv.Atoi(strings.TrimPrefix(args[0], "$"))
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("%w: %q is not an amount", models.ErrInvalidFormat, args[0])
	}
	return amount, nil
}
