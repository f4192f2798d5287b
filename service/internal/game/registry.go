package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrGameNotFound is returned for an unknown game id.
var ErrGameNotFound = errors.New("game not found")

// Registry holds the live games of one server.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*DuelGame
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[uuid.UUID]*DuelGame)}
}

// Add registers g.
func (r *Registry) Add(g *DuelGame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID] = g
}

// Get returns the game with id.
func (r *Registry) Get(id uuid.UUID) (*DuelGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Remove drops the game with id.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Wait blocks until every game's background writes have finished.
func (r *Registry) Wait() {
	r.mu.RLock()
	games := make([]*DuelGame, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	r.mu.RUnlock()
	for _, g := range games {
		g.Wait()
	}
}
