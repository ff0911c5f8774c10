package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
)

func (g *Game) canLeaveJail(player string) (models.PlayerState, error) {
	if err := g.requireTurn(player); err != nil {
		return models.PlayerState{}, err
	}
	p, err := g.Store.Get(player)
	if err != nil {
		return p, err
	}
	if !p.Jailed() {
		return p, wrong("you are not in jail")
	}
	if g.rolled && g.pending.Kind != AwaitJailRelease {
		return p, wrong("you already rolled this turn")
	}
	return p, nil
}

// PayJailFine frees the current player before they roll, or after their last
// failed attempt.
func (g *Game) PayJailFine(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.canLeaveJail(player); err != nil {
		return nil, err
	}
	fine := g.Board.JailFine
	if _, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
		if p.Money < fine {
			return p, models.ErrInsufficientFunds
		}
		p.Money -= fine
		p.JailStatus = models.JailFree
		return p, nil
	}); err != nil {
		return nil, err
	}
	var out announcer
	out.add("jail-free", player, "%s paid $%d to leave jail", g.name(player), fine)
	return out, g.afterRelease(player, &out)
}

// UseJailCard spends a get out of jail card, chance first.
func (g *Game) UseJailCard(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.canLeaveJail(player)
	if err != nil {
		return nil, err
	}
	if !p.HasJailCard() {
		return nil, wrong("you have no get out of jail card")
	}
	if _, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
		switch {
		case p.JailCards[models.DeckChance]:
			p.JailCards[models.DeckChance] = false
		case p.JailCards[models.DeckChest]:
			p.JailCards[models.DeckChest] = false
		default:
			return p, wrong("you have no get out of jail card")
		}
		p.JailStatus = models.JailFree
		return p, nil
	}); err != nil {
		return nil, err
	}
	var out announcer
	out.add("jail-free", player, "%s used a get out of jail card", g.name(player))
	return out, g.afterRelease(player, &out)
}

// afterRelease moves a player who was forced to pay by the dice they already
// rolled.
func (g *Game) afterRelease(player string, out *announcer) error {
	if g.pending.Kind != AwaitJailRelease {
		return nil
	}
	g.pending = Decision{}
	return g.moveBy(player, g.lastRoll, out)
}
