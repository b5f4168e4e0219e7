package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prepdeck/prepdeck/internal/gamestate"
)

// StateRepo persists the game state as one JSON document. It implements
// gamestate.Store.
type StateRepo struct {
	kv *kvTable
}

var _ gamestate.Store = (*StateRepo)(nil)

// Load returns the stored state. It returns gamestate.ErrNoState when
// nothing was saved yet, and a decode error for a corrupt document; the
// engine treats both as "start from defaults".
func (r *StateRepo) Load(ctx context.Context) (gamestate.State, error) {
	raw, err := r.kv.get(ctx, KeyGameState)
	if errors.Is(err, ErrNotFound) {
		return gamestate.State{}, gamestate.ErrNoState
	}
	if err != nil {
		return gamestate.State{}, err
	}

	var st gamestate.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return gamestate.State{}, fmt.Errorf("decode game state: %w", err)
	}
	return st, nil
}

// Save overwrites the stored state.
func (r *StateRepo) Save(ctx context.Context, st gamestate.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}
	return r.kv.put(ctx, KeyGameState, raw)
}

// Clear removes the stored state.
func (r *StateRepo) Clear(ctx context.Context) error {
	return r.kv.delete(ctx, KeyGameState)
}
