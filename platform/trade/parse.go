package trade

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

// ParseItem reads a trade item from command arguments:
//
//	money 200 | $200 | jailcard | B4 | B4 keep
func ParseItem(b *board.Board, args []string) (models.TradeItem, error) {
	if len(args) == 0 {
		return models.TradeItem{}, fmt.Errorf("%w: say what to trade", models.ErrInvalidFormat)
	}
	word := strings.ToLower(args[0])
	switch {
	case word == "money" || word == "cash":
		if len(args) != 2 {
			return models.TradeItem{}, fmt.Errorf("%w: money needs an amount", models.ErrInvalidFormat)
		}
		return parseMoney(args[1])
	case strings.HasPrefix(word, "$"):
		return parseMoney(word[1:])
	case word == "jailcard" || word == "card":
		return models.JailCardItem(), nil
	}

	pos, err := b.PositionFromLabel(args[0])
	if err != nil {
		return models.TradeItem{}, err
	}
	if _, err := b.TitleDeedFor(pos); err != nil {
		return models.TradeItem{}, err
	}
	keep := false
	if len(args) > 1 {
		switch strings.ToLower(args[1]) {
		case "keep", "mortgaged":
			keep = true
		default:
			return models.TradeItem{}, fmt.Errorf("%w: unknown option %q", models.ErrInvalidFormat, args[1])
		}
	}
	return models.PropertyItem(pos, keep), nil
}

func parseMoney(s string) (models.TradeItem, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return models.TradeItem{}, fmt.Errorf("%w: %q is not an amount", models.ErrInvalidFormat, s)
	}
	return models.MoneyItem(n), nil
}
