package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

func (g *Game) awaiting(player string, kinds ...DecisionKind) error {
	if err := g.requireTurn(player); err != nil {
		return err
	}
	for _, k := range kinds {
		if g.pending.Kind == k {
			return nil
		}
	}
	if g.pending.Kind == NoDecision {
		return wrong("there is nothing to do")
	}
	return wrong("you must %s first", g.pending)
}

// Buy purchases the unowned property the current player landed on.
func (g *Game) Buy(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.awaiting(player, AwaitBuy); err != nil {
		return nil, err
	}
	pos, price := g.pending.Position, g.pending.Amount
	if _, err := state.Charge(g.Store, player, price); err != nil {
		return nil, err
	}
	if err := g.Board.SetOwner(pos, player); err != nil {
		state.Credit(g.Store, player, price)
		return nil, err
	}
	g.pending = Decision{}

	s, _ := g.Board.Space(pos)
	var out announcer
	out.add("buy", player, "%s bought %s for $%d", g.name(player), s.Name, price)
	return out, nil
}

// Decline puts the property up for auction among all seated players.
func (g *Game) Decline(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.awaiting(player, AwaitBuy); err != nil {
		return nil, err
	}
	pos := g.pending.Position
	s, _ := g.Board.Space(pos)
	var out announcer
	out.add("decline", player, "%s does not buy %s", g.name(player), s.Name)
	g.openAuction(player, pos, &out)
	return out, nil
}

func (g *Game) PayRent(player string) ([]Announcement, error) {
	return g.pay(player, AwaitRent)
}

// PayTax settles a debt to the bank, from a tax space or a card.
func (g *Game) PayTax(player string) ([]Announcement, error) {
	return g.pay(player, AwaitTax)
}

// PayEach settles a card that charges every other player.
func (g *Game) PayEach(player string) ([]Announcement, error) {
	return g.pay(player, AwaitPayEach)
}

func (g *Game) pay(player string, kind DecisionKind) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.awaiting(player, kind); err != nil {
		return nil, err
	}
	d := g.pending
	var out announcer
	switch kind {
	case AwaitRent:
		if err := state.Transfer(g.Store, player, d.Owner, d.Amount); err != nil {
			return nil, err
		}
		out.add("rent-paid", player, "%s paid %s $%d rent", g.name(player), g.name(d.Owner), d.Amount)
	case AwaitTax:
		if err := state.Transfer(g.Store, player, state.Bank, d.Amount); err != nil {
			return nil, err
		}
		out.add("tax-paid", player, "%s paid $%d to the bank", g.name(player), d.Amount)
	case AwaitPayEach:
		if err := g.payEach(player, d.Amount); err != nil {
			return nil, err
		}
		out.add("paid-each", player, "%s paid every player $%d", g.name(player), d.Amount)
	}
	g.pending = Decision{}
	return out, nil
}

// payEach pays amount to every other player, all or nothing.
func (g *Game) payEach(player string, amount int) error {
	var others []string
	for _, id := range g.order {
		if id != player {
			others = append(others, id)
		}
	}
	if _, err := state.Charge(g.Store, player, amount*len(others)); err != nil {
		return err
	}
	for _, id := range others {
		if _, err := state.Credit(g.Store, id, amount); err != nil {
			return err
		}
	}
	return nil
}

// collectEach takes up to amount from every other player without pushing
// anyone below zero.
func (g *Game) collectEach(player string, amount int) (int, error) {
	total := 0
	for _, id := range g.order {
		if id == player {
			continue
		}
		paid := 0
		if _, err := g.Store.Update(id, func(p models.PlayerState) (models.PlayerState, error) {
			paid = amount
			if p.Money < paid {
				paid = p.Money
			}
			if paid < 0 {
				paid = 0
			}
			p.Money -= paid
			return p, nil
		}); err != nil {
			return total, err
		}
		total += paid
	}
	_, err := state.Credit(g.Store, player, total)
	return total, err
}
