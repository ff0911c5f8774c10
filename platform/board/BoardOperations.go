package board

import (
	"fmt"
	"sync"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// Board is the static layout plus the few fields that change during play:
// ownership, mortgages, buildings, the bank's building pool and the decks.
type Board struct {
	StartingMoney int
	JailFine      int
	JailPosition  int
	Groups        []string

	mu     sync.RWMutex
	spaces []models.Space
	deeds  map[int]models.TitleDeed
	houses int
	hotels int

	decks [2]*Deck
}

func (b *Board) Len() int {
	return len(b.spaces)
}

func (b *Board) Space(pos int) (models.Space, error) {
	if pos < 0 || pos >= len(b.spaces) {
		return models.Space{}, fmt.Errorf("%w: position %d", models.ErrOutOfRange, pos)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.spaces[pos], nil
}

// Spaces returns a snapshot copy of every space.
func (b *Board) Spaces() []models.Space {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Space, len(b.spaces))
	copy(out, b.spaces)
	return out
}

func (b *Board) TitleDeedFor(pos int) (models.TitleDeed, error) {
	deed, ok := b.deeds[pos]
	if !ok {
		return models.TitleDeed{}, fmt.Errorf("%w: position %d", models.ErrNotAProperty, pos)
	}
	return deed, nil
}

func (b *Board) GoPosition() int {
	for i, s := range b.spaces {
		if s.Kind == models.SpaceGo {
			return i
		}
	}
	return 0
}

func (b *Board) PassGoBonus() int {
	return b.spaces[b.GoPosition()].Bonus
}

func (b *Board) Draw(deck models.DeckType) models.Card {
	return b.decks[deck].Draw()
}

func (b *Board) Deck(deck models.DeckType) *Deck {
	return b.decks[deck]
}

func (b *Board) property(pos int) (*models.Space, error) {
	if pos < 0 || pos >= len(b.spaces) {
		return nil, fmt.Errorf("%w: position %d", models.ErrOutOfRange, pos)
	}
	if !b.spaces[pos].IsProperty() {
		return nil, fmt.Errorf("%w: %s", models.ErrNotAProperty, b.spaces[pos].Name)
	}
	return &b.spaces[pos], nil
}

func (b *Board) SetOwner(pos int, owner string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.property(pos)
	if err != nil {
		return err
	}
	s.Owner = owner
	return nil
}

func (b *Board) SetMortgaged(pos int, mortgaged bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.property(pos)
	if err != nil {
		return err
	}
	s.Mortgaged = mortgaged
	return nil
}

// SetHouses only records the count; callers move tokens through the bank pool.
func (b *Board) SetHouses(pos int, houses int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.property(pos)
	if err != nil {
		return err
	}
	if s.Kind != models.SpaceRoad || houses < 0 || houses > 5 {
		return fmt.Errorf("%w: %d houses on %s", models.ErrOutOfRange, houses, s.Name)
	}
	s.Houses = houses
	return nil
}

// ReleaseAll hands every property of owner back to the bank, returning any
// buildings to the pool.
func (b *Board) ReleaseAll(owner string) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var released []int
	for i := range b.spaces {
		s := &b.spaces[i]
		if !s.IsProperty() || s.Owner != owner {
			continue
		}
		if s.Houses == 5 {
			b.hotels++
		} else {
			b.houses += s.Houses
		}
		s.Houses = 0
		s.Owner = ""
		s.Mortgaged = false
		released = append(released, i)
	}
	return released
}

func (b *Board) TryTakeHouses(n int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 || b.houses < n {
		return false
	}
	b.houses -= n
	return true
}

func (b *Board) TryTakeHotel() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hotels < 1 {
		return false
	}
	b.hotels--
	return true
}

func (b *Board) ReturnHouses(n int) {
	b.mu.Lock()
	b.houses += n
	b.mu.Unlock()
}

func (b *Board) ReturnHotel() {
	b.mu.Lock()
	b.hotels++
	b.mu.Unlock()
}

func (b *Board) AvailableBuildings() (houses int, hotels int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.houses, b.hotels
}

func (b *Board) OwnedBy(owner string) []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []int
	for i, s := range b.spaces {
		if s.IsProperty() && s.Owner == owner {
			out = append(out, i)
		}
	}
	return out
}
