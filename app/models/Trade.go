package models

import (
	"fmt"
	"strings"
)

type ItemKind int

const (
	ItemMoney ItemKind = iota
	ItemJailCard
	ItemProperty
)

// TradeItem is a tagged union; two items are equal when tag and payload match.
type TradeItem struct {
	Kind          ItemKind `json:"kind"`
	Amount        int      `json:"amount,omitempty"`
	Position      int      `json:"position,omitempty"`
	KeepMortgaged bool     `json:"keep_mortgaged,omitempty"`
}

func MoneyItem(amount int) TradeItem {
	return TradeItem{Kind: ItemMoney, Amount: amount}
}

func JailCardItem() TradeItem {
	return TradeItem{Kind: ItemJailCard}
}

func PropertyItem(pos int, keepMortgaged bool) TradeItem {
	return TradeItem{Kind: ItemProperty, Position: pos, KeepMortgaged: keepMortgaged}
}

func (i TradeItem) String() string {
	switch i.Kind {
	case ItemMoney:
		return fmt.Sprintf("$%d", i.Amount)
	case ItemJailCard:
		return "get out of jail card"
	case ItemProperty:
		if i.KeepMortgaged {
			return fmt.Sprintf("property #%d (kept mortgaged)", i.Position)
		}
		return fmt.Sprintf("property #%d", i.Position)
	}
	return "?"
}

type TradeItems []TradeItem

func (items TradeItems) String() string {
	if len(items) == 0 {
		return "nothing"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

type TradeDto struct {
	Index       int        `json:"index"`
	Sender      string     `json:"sender"`
	Recipient   string     `json:"recipient"`
	Give        TradeItems `json:"give"`
	Take        TradeItems `json:"take"`
	GivingMoney int        `json:"giving_money"`
	ExpiresAt   int64      `json:"expires_at"`
	Summary     string     `json:"summary"`
}
