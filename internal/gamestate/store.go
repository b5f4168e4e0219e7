package gamestate

import (
	"context"
	"errors"
	"sync"
)

// ErrNoState is returned by a Store when nothing has been persisted yet.
var ErrNoState = errors.New("no persisted game state")

// Store is the persistence port for the engine. The engine is its only
// writer; Save always overwrites the full state.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// MemoryStore keeps the state in process. It is used by tests and by the
// CLI when no database can be opened.
type MemoryStore struct {
	mu      sync.Mutex
	state   *State
	SaveErr error // when set, Save fails with it
	Saves   int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return State{}, ErrNoState
	}
	return m.state.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	s := state.clone()
	m.state = &s
	m.Saves++
	return nil
}
