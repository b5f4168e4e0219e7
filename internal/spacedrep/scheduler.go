package spacedrep

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// Store persists review states keyed by card ID. Load returns an empty map
// when nothing was saved yet.
type Store interface {
	LoadReviews(ctx context.Context) (map[string]ReviewState, error)
	SaveReviews(ctx context.Context, reviews map[string]ReviewState) error
}

// Counts summarizes the schedule of a set of cards.
type Counts struct {
	New       int // never answered
	Due       int // due now, overdue included
	Overdue   int
	Scheduled int // answered and not yet due
	Graduated int
}

// Scheduler manages spaced repetition review scheduling. It is safe for
// concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	reviews map[string]*ReviewState

	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler loads review state from store. An unreadable store leaves
// the schedule empty.
func NewScheduler(ctx context.Context, store Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		reviews: make(map[string]*ReviewState),
		store:   store,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if store == nil {
		return s
	}
	loaded, err := store.LoadReviews(ctx)
	if err != nil {
		s.logger.Warn("review schedule unreadable, starting fresh", "error", err)
		return s
	}
	for id, rs := range loaded {
		if id == "" {
			continue
		}
		rs.CardID = id
		s.reviews[id] = &rs
	}
	return s
}

// Record updates the schedule after the card was answered. A correct answer
// moves the card one stage out; a miss makes it due again right away.
func (s *Scheduler) Record(ctx context.Context, cardID string, correct bool) {
	if cardID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rs, seen := s.reviews[cardID]
	if !seen {
		rs = &ReviewState{CardID: cardID}
		s.reviews[cardID] = rs
	}
	rs.LastReviewDate = now

	if correct {
		rs.ConsecutiveHits++
		if seen && !rs.Graduated {
			rs.Stage = min(rs.Stage+1, MaxStage)
			if rs.ConsecutiveHits >= GraduationStage {
				rs.Graduated = true
			}
		}
		rs.NextReviewDate = now.AddDate(0, 0, rs.CurrentIntervalDays())
	} else {
		if seen {
			rs.Lapses++
		}
		rs.ConsecutiveHits = 0
		rs.Stage = 0
		rs.Graduated = false
		rs.NextReviewDate = now
	}

	s.saveLocked(ctx)
}

// State returns the review state for a card.
func (s *Scheduler) State(cardID string) (ReviewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.reviews[cardID]
	if !ok {
		return ReviewState{}, false
	}
	return *rs, true
}

// Due returns the cards among ids that are due for review, most overdue
// first. Ties keep the order of ids.
func (s *Scheduler) Due(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	due, _, _ := s.partitionLocked(ids, s.now())
	return due
}

// Order arranges ids for a practice round: due cards first (most overdue
// first), then cards never answered, then the rest by next review date.
func (s *Scheduler) Order(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	due, fresh, later := s.partitionLocked(ids, s.now())
	out := make([]string, 0, len(ids))
	out = append(out, due...)
	out = append(out, fresh...)
	return append(out, later...)
}

// Counts summarizes the schedule of ids.
func (s *Scheduler) Counts(ids []string) Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var c Counts
	for _, id := range ids {
		rs, ok := s.reviews[id]
		if !ok {
			c.New++
			continue
		}
		if rs.IsDue(now) {
			c.Due++
			if rs.IsOverdue(now) {
				c.Overdue++
			}
		} else {
			c.Scheduled++
		}
		if rs.Graduated {
			c.Graduated++
		}
	}
	return c
}

// Reset forgets every card's schedule.
func (s *Scheduler) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.reviews)
	s.saveLocked(ctx)
}

func (s *Scheduler) partitionLocked(ids []string, now time.Time) (due, fresh, later []string) {
	for _, id := range ids {
		rs, ok := s.reviews[id]
		switch {
		case !ok:
			fresh = append(fresh, id)
		case rs.IsDue(now):
			due = append(due, id)
		default:
			later = append(later, id)
		}
	}
	slices.SortStableFunc(due, func(a, b string) int {
		return cmp.Compare(s.reviews[b].OverdueDays(now), s.reviews[a].OverdueDays(now))
	})
	slices.SortStableFunc(later, func(a, b string) int {
		return s.reviews[a].NextReviewDate.Compare(s.reviews[b].NextReviewDate)
	})
	return due, fresh, later
}

func (s *Scheduler) saveLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	out := make(map[string]ReviewState, len(s.reviews))
	for id, rs := range s.reviews {
		out[id] = *rs
	}
	if err := s.store.SaveReviews(ctx, out); err != nil {
		s.logger.Warn("save review schedule", "error", err, "cards", len(out))
	}
}

// Cards returns the IDs of every scheduled card, sorted.
func (s *Scheduler) Cards() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.reviews))
}
