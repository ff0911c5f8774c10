package trade

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

// Env is the game state a trade is checked and settled against.
type Env struct {
	Board   *board.Board
	Store   state.Store
	Players []string
}

// DetermineEligibleParties returns the players, in seat order, who hold every
// requested item. An empty request matches every player.
func DetermineEligibleParties(env Env, items models.TradeItems) []string {
	spaces := env.Board.Spaces()
	out := make([]string, 0, len(env.Players))
	for _, id := range env.Players {
		if holdsAll(env, spaces, id, items) {
			out = append(out, id)
		}
	}
	return out
}

func holdsAll(env Env, spaces []models.Space, id string, items models.TradeItems) bool {
	for _, item := range items {
		switch item.Kind {
		case models.ItemProperty:
			if item.Position < 0 || item.Position >= len(spaces) {
				return false
			}
			s := spaces[item.Position]
			if !s.IsProperty() || s.Owner != id {
				return false
			}
		case models.ItemJailCard:
			p, err := env.Store.Get(id)
			if err != nil || !p.HasJailCard() {
				return false
			}
		case models.ItemMoney:
		}
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

// plan is everything settlement needs, computed during validation.
type plan struct {
	senderFee    int
	recipientFee int
	// deck type of the jail card moving in each direction, -1 for none
	senderCard    int
	recipientCard int
}

// EnsureTradable reports whether t can settle against the current state. It
// must pass when offering and again right before settling.
func EnsureTradable(env Env, t *Table) error {
	_, err := check(env, t)
	return err
}

func check(env Env, t *Table) (plan, error) {
	p := plan{senderCard: -1, recipientCard: -1}
	if !t.Offered() || t.Recipient == "" {
		return p, fmt.Errorf("%w: trade has no recipient", models.ErrNotTradable)
	}
	if t.Sender == t.Recipient {
		return p, fmt.Errorf("%w: you cannot trade with yourself", models.ErrNotTradable)
	}
	if !contains(env.Players, t.Sender) || !contains(env.Players, t.Recipient) {
		return p, fmt.Errorf("%w: both players must still be in the game", models.ErrNotTradable)
	}
	if !contains(DetermineEligibleParties(env, t.Give), t.Sender) {
		return p, fmt.Errorf("%w: %s no longer holds everything offered", models.ErrNotTradable, t.Sender)
	}
	if !contains(DetermineEligibleParties(env, t.Take), t.Recipient) {
		return p, fmt.Errorf("%w: %s no longer holds everything requested", models.ErrNotTradable, t.Recipient)
	}

	spaces := env.Board.Spaces()
	if err := checkGroups(spaces, t.Give, t.Sender); err != nil {
		return p, err
	}
	if err := checkGroups(spaces, t.Take, t.Recipient); err != nil {
		return p, err
	}

	sender, err := env.Store.Get(t.Sender)
	if err != nil {
		return p, err
	}
	recipient, err := env.Store.Get(t.Recipient)
	if err != nil {
		return p, err
	}

	if hasJailCard(t.Give) {
		if p.senderCard = pickCard(sender, recipient); p.senderCard < 0 {
			return p, fmt.Errorf("%w: %s already holds that get out of jail card", models.ErrNotTradable, t.Recipient)
		}
	}
	if hasJailCard(t.Take) {
		if p.recipientCard = pickCard(recipient, sender); p.recipientCard < 0 {
			return p, fmt.Errorf("%w: %s already holds that get out of jail card", models.ErrNotTradable, t.Sender)
		}
	}

	p.senderFee, err = mortgageFees(env.Board, spaces, t.Take)
	if err != nil {
		return p, err
	}
	p.recipientFee, err = mortgageFees(env.Board, spaces, t.Give)
	if err != nil {
		return p, err
	}

	if after := sender.Money - t.GivingMoney - p.senderFee; after < floor(sender.Money) {
		return p, fmt.Errorf("%w: %s cannot afford this trade", models.ErrNotTradable, t.Sender)
	}
	if after := recipient.Money + t.GivingMoney - p.recipientFee; after < floor(recipient.Money) {
		return p, fmt.Errorf("%w: %s cannot afford this trade", models.ErrNotTradable, t.Recipient)
	}
	return p, nil
}

// floor is the lowest balance a trade may leave: zero for a solvent player,
// the current balance for one already in debt.
func floor(money int) int {
	if money < 0 {
		return money
	}
	return 0
}

// checkGroups rejects moving part of a road group away from owner while any
// road of that group still held by owner carries buildings. Both sides of a
// trade are checked the same way.
func checkGroups(spaces []models.Space, items models.TradeItems, owner string) error {
	moving := map[int]bool{}
	for _, item := range items {
		if item.Kind == models.ItemProperty {
			moving[item.Position] = true
		}
	}
	checked := map[string]bool{}
	for pos := range moving {
		s := spaces[pos]
		if s.Kind != models.SpaceRoad || checked[s.Group] {
			continue
		}
		checked[s.Group] = true

		split, built := false, false
		for i, member := range spaces {
			if member.Kind != models.SpaceRoad || member.Group != s.Group || member.Owner != owner {
				continue
			}
			if !moving[i] {
				split = true
			}
			if member.Houses > 0 {
				built = true
			}
		}
		if split && built {
			return fmt.Errorf("%w: the %s group has buildings, trade all of it or sell them first", models.ErrNotTradable, s.Group)
		}
	}
	return nil
}

func mortgageFees(b *board.Board, spaces []models.Space, received models.TradeItems) (int, error) {
	fee := 0
	for _, item := range received {
		if item.Kind != models.ItemProperty || !spaces[item.Position].Mortgaged {
			continue
		}
		deed, err := b.TitleDeedFor(item.Position)
		if err != nil {
			return 0, err
		}
		fee += MortgageFee(deed, item.KeepMortgaged)
	}
	return fee, nil
}

// MortgageFee is what the receiver of a mortgaged property pays the bank:
// 10% of the mortgage to keep it mortgaged, 110% to lift the mortgage.
func MortgageFee(deed models.TitleDeed, keepMortgaged bool) int {
	if keepMortgaged {
		return deed.Mortgage * 10 / 100
	}
	return deed.Mortgage * 110 / 100
}

func hasJailCard(items models.TradeItems) bool {
	for _, item := range items {
		if item.Kind == models.ItemJailCard {
			return true
		}
	}
	return false
}

// pickCard chooses a deck type the giver holds and the receiver lacks.
func pickCard(giver, receiver models.PlayerState) int {
	for deck := range giver.JailCards {
		if giver.JailCards[deck] && !receiver.JailCards[deck] {
			return deck
		}
	}
	return -1
}
