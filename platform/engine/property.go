package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/rules"
	"github.com/DedS3t/monopoly-engine/platform/state"
	"github.com/DedS3t/monopoly-engine/platform/trade"
)

const hotel = 5

func (g *Game) ownedProperty(player string, pos int) (models.Space, models.TitleDeed, error) {
	s, err := g.Board.Space(pos)
	if err != nil {
		return s, models.TitleDeed{}, err
	}
	deed, err := g.Board.TitleDeedFor(pos)
	if err != nil {
		return s, deed, err
	}
	if s.Owner != player {
		return s, deed, wrong("you do not own %s", s.Name)
	}
	return s, deed, nil
}

// BuildHouse puts one more building on pos. The fifth building is a hotel,
// which sends the four houses back to the bank.
func (g *Game) BuildHouse(player string, pos int) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return nil, err
	}
	if err := rules.CanBuild(g.Board, pos, player); err != nil {
		return nil, err
	}
	s, deed, err := g.ownedProperty(player, pos)
	if err != nil {
		return nil, err
	}

	cost, upgrade := deed.HouseCost, s.Houses == hotel-1
	if upgrade {
		cost = deed.HotelCost
		if !g.Board.TryTakeHotel() {
			return nil, wrong("the bank has no hotels left")
		}
	} else if !g.Board.TryTakeHouses(1) {
		return nil, wrong("the bank has no houses left")
	}
	giveBack := func() {
		if upgrade {
			g.Board.ReturnHotel()
		} else {
			g.Board.ReturnHouses(1)
		}
	}

	if _, err := state.Charge(g.Store, player, cost); err != nil {
		giveBack()
		return nil, err
	}
	if err := g.Board.SetHouses(pos, s.Houses+1); err != nil {
		giveBack()
		state.Credit(g.Store, player, cost)
		return nil, err
	}
	if upgrade {
		g.Board.ReturnHouses(hotel - 1)
	}

	var out announcer
	if upgrade {
		out.add("build", player, "%s built a hotel on %s for $%d", g.name(player), s.Name, cost)
	} else {
		out.add("build", player, "%s built a house on %s for $%d", g.name(player), s.Name, cost)
	}
	return out, nil
}

// SellHouse sells one building on pos back to the bank for half its cost.
// Breaking a hotel down needs four houses from the bank.
func (g *Game) SellHouse(player string, pos int) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return nil, err
	}
	if err := rules.CanSell(g.Board, pos, player); err != nil {
		return nil, err
	}
	s, deed, err := g.ownedProperty(player, pos)
	if err != nil {
		return nil, err
	}

	refund := deed.HouseCost / 2
	if s.Houses == hotel {
		if !g.Board.TryTakeHouses(hotel - 1) {
			return nil, wrong("the bank does not have %d houses to replace the hotel", hotel-1)
		}
		refund = deed.HotelCost / 2
	}
	if err := g.Board.SetHouses(pos, s.Houses-1); err != nil {
		if s.Houses == hotel {
			g.Board.ReturnHouses(hotel - 1)
		}
		return nil, err
	}
	if s.Houses == hotel {
		g.Board.ReturnHotel()
	} else {
		g.Board.ReturnHouses(1)
	}
	if _, err := state.Credit(g.Store, player, refund); err != nil {
		return nil, err
	}

	var out announcer
	out.add("sell", player, "%s sold a building on %s for $%d", g.name(player), s.Name, refund)
	return out, nil
}

func (g *Game) Mortgage(player string, pos int) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return nil, err
	}
	s, deed, err := g.ownedProperty(player, pos)
	if err != nil {
		return nil, err
	}
	if s.Mortgaged {
		return nil, wrong("%s is already mortgaged", s.Name)
	}
	if s.Kind == models.SpaceRoad && rules.GroupHasBuildings(g.Board, s.Group) {
		return nil, wrong("sell the buildings on the %s group first", s.Group)
	}
	if err := g.Board.SetMortgaged(pos, true); err != nil {
		return nil, err
	}
	if _, err := state.Credit(g.Store, player, deed.Mortgage); err != nil {
		return nil, err
	}

	var out announcer
	out.add("mortgage", player, "%s mortgaged %s for $%d", g.name(player), s.Name, deed.Mortgage)
	return out, nil
}

// Unmortgage lifts a mortgage for its value plus ten percent.
func (g *Game) Unmortgage(player string, pos int) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return nil, err
	}
	s, deed, err := g.ownedProperty(player, pos)
	if err != nil {
		return nil, err
	}
	if !s.Mortgaged {
		return nil, wrong("%s is not mortgaged", s.Name)
	}
	cost := trade.MortgageFee(deed, false)
	if _, err := state.Charge(g.Store, player, cost); err != nil {
		return nil, fmt.Errorf("unmortgage %s: %w", s.Name, err)
	}
	if err := g.Board.SetMortgaged(pos, false); err != nil {
		state.Credit(g.Store, player, cost)
		return nil, err
	}

	var out announcer
	out.add("unmortgage", player, "%s lifted the mortgage on %s for $%d", g.name(player), s.Name, cost)
	return out, nil
}
