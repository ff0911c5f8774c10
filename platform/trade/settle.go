package trade

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

// undoLog records how to revert each settlement step that went through.
type undoLog []func() error

func (u *undoLog) push(fn func() error) {
	*u = append(*u, fn)
}

// rollback reverts the recorded steps newest first and reports the first
// step that could not be reverted.
func (u undoLog) rollback() error {
	var first error
	for i := len(u) - 1; i >= 0; i-- {
		if err := u[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Conclude re-validates t and settles it: properties and jail cards change
// hands first, then mortgage fees and the net payment move in a fixed order.
// On any error the steps already applied are reverted, t stays open and the
// caller should drop it.
func Conclude(env Env, t *Table) error {
	p, err := check(env, t)
	if err != nil {
		return err
	}

	var undo undoLog
	if err := settle(env, t, p, &undo); err != nil {
		if rbErr := undo.rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	t.Open = false
	return nil
}

func settle(env Env, t *Table, p plan, undo *undoLog) error {
	if err := moveProperties(env, t.Give, t.Recipient, undo); err != nil {
		return err
	}
	if err := moveProperties(env, t.Take, t.Sender, undo); err != nil {
		return err
	}
	if p.senderCard >= 0 {
		if err := moveCard(env.Store, t.Sender, t.Recipient, p.senderCard, undo); err != nil {
			return err
		}
	}
	if p.recipientCard >= 0 {
		if err := moveCard(env.Store, t.Recipient, t.Sender, p.recipientCard, undo); err != nil {
			return err
		}
	}

	senderNet, recipientNet := 0, 0
	if t.GivingMoney > 0 {
		senderNet = t.GivingMoney
	} else {
		recipientNet = -t.GivingMoney
	}
	movements := []struct {
		from, to string
		amount   int
	}{
		{t.Sender, state.Bank, p.senderFee},
		{t.Recipient, state.Bank, p.recipientFee},
		{t.Sender, t.Recipient, senderNet},
		{t.Recipient, t.Sender, recipientNet},
	}
	for _, m := range movements {
		if m.amount == 0 {
			continue
		}
		// balances were checked as a whole above, so individual steps may dip
		if err := credit(env.Store, m.from, -m.amount, undo); err != nil {
			return err
		}
		if m.to != state.Bank {
			if err := credit(env.Store, m.to, m.amount, undo); err != nil {
				return err
			}
		}
	}
	return nil
}

func credit(s state.Store, id string, amount int, undo *undoLog) error {
	if _, err := state.Credit(s, id, amount); err != nil {
		return err
	}
	undo.push(func() error {
		_, err := state.Credit(s, id, -amount)
		return err
	})
	return nil
}

func moveProperties(env Env, items models.TradeItems, to string, undo *undoLog) error {
	for _, item := range items {
		if item.Kind != models.ItemProperty {
			continue
		}
		pos := item.Position
		s, err := env.Board.Space(pos)
		if err != nil {
			return err
		}
		if err := env.Board.SetOwner(pos, to); err != nil {
			return err
		}
		undo.push(func() error { return env.Board.SetOwner(pos, s.Owner) })
		if s.Mortgaged && !item.KeepMortgaged {
			if err := env.Board.SetMortgaged(pos, false); err != nil {
				return err
			}
			undo.push(func() error { return env.Board.SetMortgaged(pos, true) })
		}
	}
	return nil
}

func moveCard(s state.Store, from, to string, deck int, undo *undoLog) error {
	if err := setCard(s, from, deck, false, undo); err != nil {
		return err
	}
	return setCard(s, to, deck, true, undo)
}

func setCard(s state.Store, id string, deck int, held bool, undo *undoLog) error {
	set := func(v bool) error {
		_, err := s.Update(id, func(p models.PlayerState) (models.PlayerState, error) {
			p.JailCards[deck] = v
			return p, nil
		})
		return err
	}
	if err := set(held); err != nil {
		return err
	}
	undo.push(func() error { return set(!held) })
	return nil
}
