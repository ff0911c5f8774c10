package rules

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

const (
	utilityMultiplier     = 4
	utilityPairMultiplier = 10
)

// RentFor returns what a visitor owes at pos. For utilities it returns the
// dice multiplier; use Charge to get the amount for a roll.
func RentFor(b *board.Board, pos int) int {
	spaces := b.Spaces()
	if pos < 0 || pos >= len(spaces) {
		return 0
	}
	s := spaces[pos]
	if !s.Owned() || s.Mortgaged {
		return 0
	}
	deed, err := b.TitleDeedFor(pos)
	if err != nil {
		return 0
	}

	switch s.Kind {
	case models.SpaceRoad:
		if s.Houses > 0 {
			return deed.Rent[s.Houses]
		}
		if groupOwner(spaces, s.Group) == s.Owner {
			return deed.Rent[0] * 2
		}
		return deed.Rent[0]
	case models.SpaceTrainStation:
		return deed.Rent[0] * countOwned(spaces, models.SpaceTrainStation, s.Owner)
	case models.SpaceUtility:
		if countOwned(spaces, models.SpaceUtility, s.Owner) >= 2 {
			return utilityPairMultiplier
		}
		return utilityMultiplier
	case models.SpaceSimple, models.SpaceDrawCard, models.SpaceGoToJail, models.SpaceGo, models.SpaceTax:
		return 0
	}
	return 0
}

// Charge is the rent due for landing on pos after rolling diceTotal.
func Charge(b *board.Board, pos int, diceTotal int) int {
	rent := RentFor(b, pos)
	if s, err := b.Space(pos); err == nil && s.Kind == models.SpaceUtility {
		return rent * diceTotal
	}
	return rent
}

func IsGroupFullyOwned(b *board.Board, group string) bool {
	return groupOwner(b.Spaces(), group) != ""
}

// FindSpacesOfGroup lists the positions of every road in group, in board order.
func FindSpacesOfGroup(b *board.Board, group string) []int {
	return groupPositions(b.Spaces(), group)
}

func groupPositions(spaces []models.Space, group string) []int {
	var out []int
	for i, s := range spaces {
		if s.Kind == models.SpaceRoad && s.Group == group {
			out = append(out, i)
		}
	}
	return out
}

// groupOwner returns the single owner of every road in group, or "".
func groupOwner(spaces []models.Space, group string) string {
	owner := ""
	for _, pos := range groupPositions(spaces, group) {
		s := spaces[pos]
		if s.Owner == "" || (owner != "" && s.Owner != owner) {
			return ""
		}
		owner = s.Owner
	}
	return owner
}

func countOwned(spaces []models.Space, kind models.SpaceKind, owner string) int {
	n := 0
	for _, s := range spaces {
		if s.Kind == kind && s.Owner == owner {
			n++
		}
	}
	return n
}
