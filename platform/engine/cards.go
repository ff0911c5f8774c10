package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

func (g *Game) applyCard(player string, deck models.DeckType, card models.Card, out *announcer) error {
	out.add("card", player, "%s draws %s: %s", g.name(player), deck, card.Info)

	switch card.Effect {
	case models.EffectCollect:
		_, err := state.Credit(g.Store, player, card.Value)
		return err
	case models.EffectPay:
		if _, err := state.Charge(g.Store, player, card.Value); err != nil {
			g.pending = Decision{Kind: AwaitTax, Amount: card.Value}
			out.add("tax", player, "%s owes the bank $%d", g.name(player), card.Value)
		}
		return nil
	case models.EffectAdvance:
		return g.moveTo(player, card.Value, out)
	case models.EffectBack:
		return g.moveBy(player, -card.Value, out)
	case models.EffectJail:
		return g.sendToJail(player, out)
	case models.EffectJailCard:
		kept := false
		_, err := g.Store.Update(player, func(p models.PlayerState) (models.PlayerState, error) {
			kept = !p.JailCards[deck]
			p.JailCards[deck] = true
			return p, nil
		})
		if err == nil && kept {
			out.add("jail-card", player, "%s keeps a get out of jail card", g.name(player))
		}
		return err
	case models.EffectCollectEach:
		total, err := g.collectEach(player, card.Value)
		if err == nil {
			out.add("collect", player, "%s collects $%d from the other players", g.name(player), total)
		}
		return err
	case models.EffectPayEach:
		if err := g.payEach(player, card.Value); err != nil {
			g.pending = Decision{Kind: AwaitPayEach, Amount: card.Value}
			out.add("pay-each", player, "%s owes every player $%d", g.name(player), card.Value)
		}
		return nil
	}
	return nil
}
