package engine

import (
	"fmt"
	"sync"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

// Registry holds the running games of one server process.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game

	// NewBoard and NewStore build the per-game board and player store.
	NewBoard func() (*board.Board, error)
	NewStore func(gameID string) state.Store
	// Notify delivers private trade messages and Broadcast announcements made
	// outside a command; both are bound to each game.
	Notify    func(gameID, player, text string)
	Broadcast func(gameID string, out []Announcement)
	Defaults  Options
}

func NewRegistry(defaults Options) *Registry {
	return &Registry{
		games:    map[string]*Game{},
		NewBoard: func() (*board.Board, error) { return board.LoadDefault(), nil },
		NewStore: func(string) state.Store { return state.NewMemoryStore() },
		Defaults: defaults,
	}
}

// Start creates and registers game id. Starting a game twice fails.
func (r *Registry) Start(id string, seats []Seat) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; ok {
		return nil, fmt.Errorf("%w: game %s already started", models.ErrWrongTurnState, id)
	}
	b, err := r.NewBoard()
	if err != nil {
		return nil, err
	}
	opts := r.Defaults
	opts.Store = r.NewStore(id)
	if r.Notify != nil {
		notify := r.Notify
		opts.Notify = func(player, text string) { notify(id, player, text) }
	}
	if r.Broadcast != nil {
		broadcast := r.Broadcast
		opts.Broadcast = func(out []Announcement) { broadcast(id, out) }
	}
	g, err := NewGame(id, b, seats, opts)
	if err != nil {
		return nil, err
	}
	r.games[id] = g
	return g, nil
}

func (r *Registry) Get(id string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

func (r *Registry) End(id string) {
	r.mu.Lock()
	delete(r.games, id)
	r.mu.Unlock()
}
