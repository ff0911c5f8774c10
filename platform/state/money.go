package state

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
)

const Bank = ""

// Credit adds amount (which may be negative) to a player's money.
func Credit(s Store, id string, amount int) (models.PlayerState, error) {
	return s.Update(id, func(p models.PlayerState) (models.PlayerState, error) {
		p.Money += amount
		return p, nil
	})
}

// Charge takes amount from a player, refusing to push a solvent player below
// zero.
func Charge(s Store, id string, amount int) (models.PlayerState, error) {
	return s.Update(id, func(p models.PlayerState) (models.PlayerState, error) {
		if amount > 0 && p.Money-amount < 0 {
			return p, fmt.Errorf("%w: need $%d, have $%d", models.ErrInsufficientFunds, amount, p.Money)
		}
		p.Money -= amount
		return p, nil
	})
}

// Transfer moves amount between two players; Bank on either side means the
// money comes from or goes to the bank.
func Transfer(s Store, from, to string, amount int) error {
	if amount == 0 {
		return nil
	}
	if from != Bank {
		if _, err := Charge(s, from, amount); err != nil {
			return err
		}
	}
	if to != Bank {
		if _, err := Credit(s, to, amount); err != nil {
			if from != Bank {
				Credit(s, from, amount)
			}
			return err
		}
	}
	return nil
}
