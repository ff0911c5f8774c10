package queries

import (
	"sort"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/DedS3t/monopoly-engine/platform/rules"
)

// Read-only views of a running game for the HTTP inspection routes.

func spaceDto(g *engine.Game, pos int, s models.Space) models.SpaceDto {
	dto := models.SpaceDto{
		Label:     board.Label(pos),
		Position:  pos,
		Name:      s.Name,
		Kind:      s.Kind.String(),
		Group:     s.Group,
		Owner:     s.Owner,
		Houses:    s.Houses,
		Mortgaged: s.Mortgaged,
		Rent:      rules.RentFor(g.Board, pos),
	}
	if deed, err := g.Board.TitleDeedFor(pos); err == nil {
		dto.Deed = &deed
	}
	return dto
}

func BoardView(g *engine.Game) []models.SpaceDto {
	spaces := g.Board.Spaces()
	out := make([]models.SpaceDto, len(spaces))
	for i, s := range spaces {
		out[i] = spaceDto(g, i, s)
	}
	return out
}

func SpaceInfo(g *engine.Game, label string) (models.SpaceDto, error) {
	pos, err := g.Board.PositionFromLabel(label)
	if err != nil {
		return models.SpaceDto{}, err
	}
	s, err := g.Board.Space(pos)
	if err != nil {
		return models.SpaceDto{}, err
	}
	return spaceDto(g, pos, s), nil
}

func DeedInfo(g *engine.Game, label string) (models.TitleDeed, error) {
	pos, err := g.Board.PositionFromLabel(label)
	if err != nil {
		return models.TitleDeed{}, err
	}
	return g.Board.TitleDeedFor(pos)
}

func PlayerInfo(g *engine.Game, userID string) (models.PlayerDto, error) {
	p, err := g.Player(userID)
	if err != nil {
		return models.PlayerDto{}, err
	}
	cards := 0
	for _, held := range p.JailCards {
		if held {
			cards++
		}
	}
	return models.PlayerDto{
		User_id:    userID,
		Username:   g.Name(userID),
		Balance:    p.Money,
		Pos:        p.Pos,
		Label:      board.Label(p.Pos),
		Color:      p.Color,
		Properties: g.Board.OwnedBy(userID),
		Jail:       p.Jailed(),
		JailStatus: p.JailStatus,
		JailCards:  cards,
	}, nil
}

// Trades lists the open offers, oldest first.
func Trades(g *engine.Game) []models.TradeDto {
	tables := g.Trades.Offers("")
	out := make([]models.TradeDto, 0, len(tables))
	for _, t := range tables {
		out = append(out, models.TradeDto{
			Index:       t.Index,
			Sender:      t.Sender,
			Recipient:   t.Recipient,
			Give:        t.Give,
			Take:        t.Take,
			GivingMoney: t.GivingMoney,
			ExpiresAt:   t.ExpiresAt.Unix(),
			Summary:     t.String(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
