// internal/store/memory.go
//
// Store interface for live games, and its in-memory implementation.
//
// Characteristics of the memory store:
//   - Stores *game.State values keyed by ID in a map.
//   - Update holds a per-game lock across fn, so submissions to one game are
//     applied one at a time while other games proceed in parallel.
//   - Returned states are copies; callers cannot alias stored data.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordscramble/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: game not found")

// UpdateFunc computes the next state of a game from the current one.
// Returning an error aborts the update and leaves the stored state as is.
type UpdateFunc func(ctx context.Context, cur *game.State) (*game.State, error)

// Store holds live games.
type Store interface {
	// Save persists or replaces a game state.
	Save(ctx context.Context, s *game.State) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.State, error)

	// Update applies fn to the game with the given ID and stores the result.
	// Updates to the same game are serialised.
	Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error)

	// Count returns the number of stored games.
	Count(ctx context.Context) (int, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	locks keyedMutex

	mu    sync.RWMutex           // guards games map
	games map[string]*game.State // keyed by State.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.State)}
}

func (m *memory) Save(ctx context.Context, s *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[s.ID] = s.Clone()
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.games[id]; ok {
		return s.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	cur, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(ctx, cur)
	if err != nil {
		return nil, err
	}
	next.ID = id
	if err := m.Save(ctx, next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

func (m *memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games), nil
}

// keyedMutex hands out one mutex per key and forgets it once nobody holds
// or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &refMutex{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
