package engine

import (
	"fmt"
	"strings"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/trade"
)

// Trade commands may be used by any seated player at any time. The game
// mutex is held while an offer is validated or settled so no roll, purchase
// or payment interleaves with it.

func (g *Game) TradeGive(player string, args []string) (trade.Table, error) {
	return g.tradeEdit(player, args, g.Trades.Give)
}

func (g *Game) TradeTake(player string, args []string) (trade.Table, error) {
	return g.tradeEdit(player, args, g.Trades.Take)
}

func (g *Game) tradeEdit(player string, args []string, edit func(string, models.TradeItem) trade.Table) (trade.Table, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return trade.Table{}, err
	}
	item, err := trade.ParseItem(g.Board, args)
	if err != nil {
		return trade.Table{}, err
	}
	return edit(player, item), nil
}

// TradeOffer sends the player's draft. to may be a player id, a username or
// empty.
func (g *Game) TradeOffer(player, to string) (trade.Table, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return trade.Table{}, err
	}
	recipient, err := g.resolve(to)
	if err != nil {
		return trade.Table{}, err
	}
	return g.Trades.Offer(g.env(), player, recipient)
}

func (g *Game) TradeAccept(player string, idx int) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return nil, err
	}
	t, err := g.Trades.Accept(g.env(), player, idx)
	if err != nil {
		return nil, err
	}
	var out announcer
	out.add("trade", player, "%s and %s traded: %s", g.name(t.Sender), g.name(t.Recipient), t)
	return out, nil
}

func (g *Game) TradeReject(player string, idx int) (trade.Table, error) {
	if err := g.seatedOnly(player); err != nil {
		return trade.Table{}, err
	}
	return g.Trades.Reject(player, idx)
}

// TradeClose withdraws offer idx, or discards the player's draft when idx is
// zero.
func (g *Game) TradeClose(player string, idx int) error {
	if err := g.seatedOnly(player); err != nil {
		return err
	}
	if idx == 0 {
		return g.Trades.Discard(player)
	}
	_, err := g.Trades.Withdraw(player, idx)
	return err
}

func (g *Game) TradeCopy(player string, idx int) (trade.Table, error) {
	if err := g.seatedOnly(player); err != nil {
		return trade.Table{}, err
	}
	return g.Trades.Copy(player, idx)
}

func (g *Game) TradeRecall(player string, idx int) (trade.Table, error) {
	if err := g.seatedOnly(player); err != nil {
		return trade.Table{}, err
	}
	return g.Trades.Recall(player, idx)
}

// TradeShow describes offer idx, or the player's draft when idx is zero.
func (g *Game) TradeShow(player string, idx int) (string, error) {
	if err := g.seatedOnly(player); err != nil {
		return "", err
	}
	if idx == 0 {
		t, ok := g.Trades.Draft(player)
		if !ok {
			return "", wrong("you have no draft trade")
		}
		return t.String(), nil
	}
	t, err := g.Trades.Table(idx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (expires %s)", t, t.ExpiresAt.Format("15:04:05")), nil
}

func (g *Game) seatedOnly(player string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requireSeated(player)
}

func (g *Game) resolve(who string) (string, error) {
	if who == "" {
		return "", nil
	}
	for _, id := range g.order {
		if id == who || strings.EqualFold(g.names[id], who) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", models.ErrUnknownPlayer, who)
}
