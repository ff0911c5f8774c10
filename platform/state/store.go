package state

import (
	"fmt"
	"sync"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// UpdateFunc computes the next state from the current one. Returning an error
// leaves the stored value untouched.
type UpdateFunc func(models.PlayerState) (models.PlayerState, error)

// Store holds live player state keyed by user id. Update is an atomic
// read-modify-write: fn may run more than once under contention.
type Store interface {
	Create(id string, p models.PlayerState) error
	Get(id string) (models.PlayerState, error)
	Update(id string, fn UpdateFunc) (models.PlayerState, error)
	Remove(id string) error
}

type MemoryStore struct {
	m sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(id string, p models.PlayerState) error {
	if _, loaded := s.m.LoadOrStore(id, p); loaded {
		return fmt.Errorf("player %s already seated", id)
	}
	return nil
}

func (s *MemoryStore) Get(id string) (models.PlayerState, error) {
	v, ok := s.m.Load(id)
	if !ok {
		return models.PlayerState{}, fmt.Errorf("%w: %s", models.ErrUnknownPlayer, id)
	}
	return v.(models.PlayerState), nil
}

func (s *MemoryStore) Update(id string, fn UpdateFunc) (models.PlayerState, error) {
	for {
		cur, ok := s.m.Load(id)
		if !ok {
			return models.PlayerState{}, fmt.Errorf("%w: %s", models.ErrUnknownPlayer, id)
		}
		next, err := fn(cur.(models.PlayerState))
		if err != nil {
			return cur.(models.PlayerState), err
		}
		if s.m.CompareAndSwap(id, cur, next) {
			return next, nil
		}
	}
}

func (s *MemoryStore) Remove(id string) error {
	s.m.Delete(id)
	return nil
}
