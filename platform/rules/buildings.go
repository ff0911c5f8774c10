package rules

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

// CanBuild checks that owner may put one more building on pos: the group is a
// complete unmortgaged monopoly and building stays even across it.
func CanBuild(b *board.Board, pos int, owner string) error {
	spaces := b.Spaces()
	s, err := ownedRoad(spaces, pos, owner)
	if err != nil {
		return err
	}
	if groupOwner(spaces, s.Group) != owner {
		return fmt.Errorf("%w: you need every %s property first", models.ErrWrongTurnState, s.Group)
	}
	if s.Houses >= 5 {
		return fmt.Errorf("%w: %s already has a hotel", models.ErrWrongTurnState, s.Name)
	}
	for _, p := range groupPositions(spaces, s.Group) {
		if spaces[p].Mortgaged {
			return fmt.Errorf("%w: %s is mortgaged", models.ErrWrongTurnState, spaces[p].Name)
		}
		if spaces[p].Houses < s.Houses {
			return fmt.Errorf("%w: build on %s first", models.ErrWrongTurnState, spaces[p].Name)
		}
	}
	return nil
}

// CanSell is the reverse of CanBuild: buildings come off evenly.
func CanSell(b *board.Board, pos int, owner string) error {
	spaces := b.Spaces()
	s, err := ownedRoad(spaces, pos, owner)
	if err != nil {
		return err
	}
	if s.Houses == 0 {
		return fmt.Errorf("%w: %s has no buildings", models.ErrWrongTurnState, s.Name)
	}
	for _, p := range groupPositions(spaces, s.Group) {
		if spaces[p].Houses > s.Houses {
			return fmt.Errorf("%w: sell from %s first", models.ErrWrongTurnState, spaces[p].Name)
		}
	}
	return nil
}

// GroupHasBuildings reports whether any road in group carries a building.
func GroupHasBuildings(b *board.Board, group string) bool {
	spaces := b.Spaces()
	for _, p := range groupPositions(spaces, group) {
		if spaces[p].Houses > 0 {
			return true
		}
	}
	return false
}

func ownedRoad(spaces []models.Space, pos int, owner string) (models.Space, error) {
	if pos < 0 || pos >= len(spaces) {
		return models.Space{}, fmt.Errorf("%w: position %d", models.ErrOutOfRange, pos)
	}
	s := spaces[pos]
	if s.Kind != models.SpaceRoad {
		return s, fmt.Errorf("%w: can only build on roads", models.ErrNotAProperty)
	}
	if s.Owner != owner {
		return s, fmt.Errorf("%w: you do not own %s", models.ErrWrongTurnState, s.Name)
	}
	return s, nil
}
