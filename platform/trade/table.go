package trade

import (
	"fmt"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// Table is one trade. While Sender is empty it is a draft owned by Owner;
// once offered, Sender and Recipient are fixed and Index addresses it in the
// desk until it closes.
type Table struct {
	Index     int
	Owner     string
	Sender    string
	Recipient string

	Give models.TradeItems
	Take models.TradeItems
	// GivingMoney is what the sender pays the recipient; negative means the
	// recipient pays.
	GivingMoney int

	Open      bool
	ExpiresAt time.Time

	timer *time.Timer
}

func (t *Table) Offered() bool {
	return t.Sender != ""
}

func (t *Table) Involves(player string) bool {
	return t.Owner == player || t.Sender == player || t.Recipient == player
}

func (t *Table) give(item models.TradeItem) {
	if item.Kind == models.ItemMoney {
		t.GivingMoney = item.Amount
		return
	}
	t.Give = toggle(t.Give, item)
}

func (t *Table) take(item models.TradeItem) {
	if item.Kind == models.ItemMoney {
		t.GivingMoney = -item.Amount
		return
	}
	t.Take = toggle(t.Take, item)
}

// toggle removes an equal item, replaces a property entry for the same
// position, or appends.
func toggle(items models.TradeItems, item models.TradeItem) models.TradeItems {
	for i, have := range items {
		if have == item {
			return append(items[:i:i], items[i+1:]...)
		}
		if have.Kind == models.ItemProperty && item.Kind == models.ItemProperty && have.Position == item.Position {
			out := append(models.TradeItems(nil), items...)
			out[i] = item
			return out
		}
	}
	return append(append(models.TradeItems(nil), items...), item)
}

func (t Table) clone() Table {
	t.Give = append(models.TradeItems(nil), t.Give...)
	t.Take = append(models.TradeItems(nil), t.Take...)
	t.timer = nil
	return t
}

func (t Table) String() string {
	from, to := t.Sender, t.Recipient
	if !t.Offered() {
		from, to = t.Owner, "them"
	}
	give, take := t.Give.String(), t.Take.String()
	switch {
	case t.GivingMoney > 0:
		give = money(t.Give, t.GivingMoney)
	case t.GivingMoney < 0:
		take = money(t.Take, -t.GivingMoney)
	}
	if t.Index > 0 {
		return fmt.Sprintf("trade #%d: %s gives %s, %s gives %s", t.Index, from, give, to, take)
	}
	return fmt.Sprintf("draft trade: %s gives %s, %s gives %s", from, give, to, take)
}

func money(items models.TradeItems, amount int) string {
	m := models.MoneyItem(amount).String()
	if len(items) == 0 {
		return m
	}
	return items.String() + ", " + m
}
