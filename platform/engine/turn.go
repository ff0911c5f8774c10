package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/rules"
)

const speedingLimit = 3

// Roll throws both dice for the current player and moves them.
func (g *Game) Roll(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireTurn(player); err != nil {
		return nil, err
	}
	if g.pending.Kind != NoDecision {
		return nil, wrong("you must %s first", g.pending)
	}
	if g.rolled && !g.bonus {
		return nil, wrong("you already rolled, end your turn")
	}
	p, err := g.Store.Get(player)
	if err != nil {
		return nil, err
	}

	d1, d2 := g.dice.Roll()
	total, doubles := d1+d2, d1 == d2
	g.rolled, g.bonus, g.lastRoll = true, false, total

	var out announcer
	out.add("dice", player, "%s rolled %d and %d", g.name(player), d1, d2)
	g.log.WithFields(logrus.Fields{"player": player, "dice": []int{d1, d2}}).Debug("roll")

	if p.Jailed() {
		return out, g.rollInJail(player, p, doubles, total, &out)
	}

	if doubles {
		g.doubles++
		if g.doubles >= speedingLimit {
			out.add("jail", player, "%s rolled doubles %d times in a row and goes to jail for speeding", g.name(player), speedingLimit)
			return out, g.sendToJail(player, &out)
		}
		g.bonus = true
	}
	return out, g.moveBy(player, total, &out)
}

func (g *Game) rollInJail(player string, p models.PlayerState, doubles bool, total int, out *announcer) error {
	if doubles {
		if _, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
			p.JailStatus = models.JailFree
			return p, nil
		}); err != nil {
			return err
		}
		out.add("jail-free", player, "%s rolled doubles and leaves jail", g.name(player))
		return g.moveBy(player, total, out)
	}

	if p.JailStatus+1 >= speedingLimit {
		g.pending = Decision{Kind: AwaitJailRelease, Amount: g.Board.JailFine}
		out.add("jail", player, "%s failed to roll doubles three times and must pay $%d or use a card", g.name(player), g.Board.JailFine)
		return nil
	}
	if _, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
		p.JailStatus++
		return p, nil
	}); err != nil {
		return err
	}
	out.add("jail", player, "%s stays in jail", g.name(player))
	return nil
}

// EndTurn passes the turn once the current player has rolled and resolved
// everything.
func (g *Game) EndTurn(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireTurn(player); err != nil {
		return nil, err
	}
	switch {
	case !g.rolled:
		return nil, wrong("you must roll the dice first")
	case g.pending.Kind != NoDecision:
		return nil, wrong("you must %s first", g.pending)
	case g.bonus:
		return nil, wrong("you rolled doubles, roll again")
	}
	var out announcer
	g.advance(&out)
	return out, nil
}

// moveBy moves the player steps spaces (negative moves back) and handles the
// landing. Passing go forwards pays the bonus.
func (g *Game) moveBy(player string, steps int, out *announcer) error {
	n := g.Board.Len()
	passed := false
	p, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
		next := p.Pos + steps
		passed = steps > 0 && next >= n
		if passed {
			p.Money += g.Board.PassGoBonus()
		}
		p.Pos = ((next % n) + n) % n
		return p, nil
	})
	if err != nil {
		return err
	}
	return g.arrive(player, p.Pos, passed, out)
}

// moveTo moves the player forward to pos, passing go if it wraps.
func (g *Game) moveTo(player string, pos int, out *announcer) error {
	passed := false
	p, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
		passed = pos < p.Pos
		if passed {
			p.Money += g.Board.PassGoBonus()
		}
		p.Pos = pos
		return p, nil
	})
	if err != nil {
		return err
	}
	return g.arrive(player, p.Pos, passed, out)
}

func (g *Game) arrive(player string, pos int, passed bool, out *announcer) error {
	if passed {
		out.add("pass-go", player, "%s passed go and collects $%d", g.name(player), g.Board.PassGoBonus())
	}
	return g.land(player, pos, out)
}

func (g *Game) land(player string, pos int, out *announcer) error {
	s, err := g.Board.Space(pos)
	if err != nil {
		return err
	}
	out.add("move", player, "%s lands on %s (%s)", g.name(player), s.Name, board.Label(pos))

	switch s.Kind {
	case models.SpaceSimple, models.SpaceGo:
		return nil
	case models.SpaceTax:
		g.pending = Decision{Kind: AwaitTax, Position: pos, Amount: s.Amount}
		out.add("tax", player, "%s owes $%d %s", g.name(player), s.Amount, s.Name)
		return nil
	case models.SpaceGoToJail:
		out.add("jail", player, "%s goes to jail", g.name(player))
		return g.sendToJail(player, out)
	case models.SpaceDrawCard:
		return g.applyCard(player, s.Deck, g.Board.Draw(s.Deck), out)
	case models.SpaceRoad, models.SpaceTrainStation, models.SpaceUtility:
		switch {
		case s.Owner == "":
			deed, err := g.Board.TitleDeedFor(pos)
			if err != nil {
				return err
			}
			g.pending = Decision{Kind: AwaitBuy, Position: pos, Amount: deed.Price}
			out.add("buy-offer", player, "%s can buy %s for $%d", g.name(player), s.Name, deed.Price)
		case s.Owner == player || s.Mortgaged:
		default:
			rent := rules.Charge(g.Board, pos, g.lastRoll)
			g.pending = Decision{Kind: AwaitRent, Position: pos, Amount: rent, Owner: s.Owner}
			out.add("rent", player, "%s owes %s $%d rent", g.name(player), g.name(s.Owner), rent)
		}
		return nil
	}
	return nil
}

// sendToJail jails the player and ends their turn.
func (g *Game) sendToJail(player string, out *announcer) error {
	if _, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
		p.Pos = g.Board.JailPosition
		p.JailStatus = 0
		return p, nil
	}); err != nil {
		return err
	}
	g.advance(out)
	return nil
}
