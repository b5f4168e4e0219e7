package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prepdeck/prepdeck/internal/spacedrep"
)

// ReviewRepo persists the flashcard review schedule as one JSON document.
// It implements spacedrep.Store.
type ReviewRepo struct {
	kv *kvTable
}

var _ spacedrep.Store = (*ReviewRepo)(nil)

func (r *ReviewRepo) LoadReviews(ctx context.Context) (map[string]spacedrep.ReviewState, error) {
	raw, err := r.kv.get(ctx, KeyReviews)
	if errors.Is(err, ErrNotFound) {
		return map[string]spacedrep.ReviewState{}, nil
	}
	if err != nil {
		return nil, err
	}

	var reviews map[string]spacedrep.ReviewState
	if err := json.Unmarshal(raw, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepo) SaveReviews(ctx context.Context, reviews map[string]spacedrep.ReviewState) error {
	raw, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("encode reviews: %w", err)
	}
	return r.kv.put(ctx, KeyReviews, raw)
}
