package gamestate

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// XP amounts for the built-in actions.
const (
	FlashcardXP    = 10
	ToolFirstUseXP = 25
	QuizCorrectXP  = 5
	PerfectQuizXP  = 25
)

// Award reasons recorded in the XP history.
const (
	ReasonFlashcard    = "flashcard_answer_attempt"
	ReasonToolFirstUse = "tool_first_use"
	ReasonQuiz         = "quiz_complete"
	ReasonPerfectQuiz  = "quiz_perfect"
	ReasonHighScore    = "flashcard_high_score"
)

// Award is a single XP grant.
type Award struct {
	Amount int
	Reason string
}

// Change is delivered to listeners after a mutating action.
type Change struct {
	Snapshot
	Awards   []Award  // XP granted by this action, in order
	Unlocked []string // achievements unlocked by this action
}

// Listener receives every Change.
type Listener func(Change)

// Engine owns the gamification state. All mutation goes through its
// methods; each one persists the full state before returning.
type Engine struct {
	mu       sync.Mutex
	state    State
	recentXP int
	pending  Change

	store  Store
	now    func() time.Time
	logger *slog.Logger

	// notifyMu is taken before mu is released, so changes reach listeners
	// in the order they were made.
	notifyMu   sync.Mutex
	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for streak accounting.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine loads the persisted state from store, falling back to defaults
// when nothing is stored or the stored state cannot be decoded.
func NewEngine(ctx context.Context, store Store, opts ...Option) *Engine {
	e := &Engine{
		state:     DefaultState(),
		store:     store,
		now:       time.Now,
		logger:    slog.Default(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}

	if store == nil {
		return e
	}
	st, err := store.Load(ctx)
	switch {
	case err == nil:
		e.state = st.sanitize()
	case errors.Is(err, ErrNoState):
	default:
		e.logger.Warn("game state unreadable, starting fresh", "error", err)
	}
	return e
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// LevelProgress returns progress through the current level. It depends on
// TotalXP only.
func (e *Engine) LevelProgress() LevelProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ProgressForXP(e.state.TotalXP)
}

// AwardXP adds amount to the total. Non-positive amounts are ignored.
func (e *Engine) AwardXP(ctx context.Context, amount int, reason string) Snapshot {
	return e.mutate(ctx, func() bool {
		return e.awardLocked(amount, reason)
	})
}

// RecordActivity advances the daily streak for a qualifying study action.
func (e *Engine) RecordActivity(ctx context.Context) Snapshot {
	return e.mutate(ctx, func() bool {
		return e.recordActivityLocked()
	})
}

// ToolUsage pays the first-use bonus for toolID once.
func (e *Engine) ToolUsage(ctx context.Context, toolID string) Snapshot {
	return e.mutate(ctx, func() bool {
		if toolID == "" || slices.Contains(e.state.ToolUsageLog, toolID) {
			return false
		}
		e.state.ToolUsageLog = append(e.state.ToolUsageLog, toolID)
		e.awardLocked(ToolFirstUseXP, ReasonToolFirstUse+":"+toolID)
		return true
	})
}

// FlashcardComplete credits one answered flashcard.
func (e *Engine) FlashcardComplete(ctx context.Context) Snapshot {
	return e.mutate(ctx, func() bool {
		e.recordActivityLocked()
		e.state.FlashcardsCompleted++
		e.awardLocked(FlashcardXP, ReasonFlashcard)
		return true
	})
}

// QuizComplete credits a finished quiz round of total cards.
func (e *Engine) QuizComplete(ctx context.Context, correct, total int) Snapshot {
	return e.mutate(ctx, func() bool {
		if total <= 0 {
			return false
		}
		correct = min(max(correct, 0), total)
		e.recordActivityLocked()
		e.state.QuizzesCompleted++
		e.awardLocked(correct*QuizCorrectXP, ReasonQuiz)
		if correct == total {
			e.awardLocked(PerfectQuizXP, ReasonPerfectQuiz)
		}
		return true
	})
}

// Reset replaces the state with defaults and persists it.
func (e *Engine) Reset(ctx context.Context) Snapshot {
	return e.mutate(ctx, func() bool {
		e.state = DefaultState()
		e.recentXP = 0
		return true
	})
}

// Subscribe registers fn for every later change. Changes arrive in the
// order they were made and listeners run in subscription order. A listener
// may read the engine but must not mutate it. The returned function removes
// the subscription.
func (e *Engine) Subscribe(fn Listener) func() {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.listenerMu.Lock()
		defer e.listenerMu.Unlock()
		delete(e.listeners, id)
	}
}

// unlockAchievement adds id to the unlocked set. Repeated calls are no-ops.
func (e *Engine) unlockAchievement(ctx context.Context, id string) Snapshot {
	return e.mutate(ctx, func() bool {
		return e.unlockLocked(id)
	})
}

// mutate runs fn under the lock and, when it reports a change, evaluates
// achievements, persists, and notifies listeners.
func (e *Engine) mutate(ctx context.Context, fn func() bool) Snapshot {
	e.mu.Lock()
	e.pending = Change{}
	changed := fn()
	if changed {
		for _, id := range earnedAchievements(e.snapshotLocked()) {
			e.unlockLocked(id)
		}
		e.persistLocked(ctx)
	}
	snap := e.snapshotLocked()
	change := e.pending
	change.Snapshot = snap
	e.pending = Change{}
	if !changed {
		e.mu.Unlock()
		return snap
	}

	e.notifyMu.Lock()
	e.mu.Unlock()
	e.notify(change)
	e.notifyMu.Unlock()
	return snap
}

// awardLocked credits amount, clipped so the total never passes MaxTotalXP.
func (e *Engine) awardLocked(amount int, reason string) bool {
	amount = min(amount, MaxTotalXP-e.state.TotalXP)
	if amount <= 0 {
		return false
	}
	e.state.TotalXP += amount
	e.recentXP = amount
	e.pending.Awards = append(e.pending.Awards, Award{Amount: amount, Reason: reason})
	return true
}

func (e *Engine) recordActivityLocked() bool {
	today := e.now()
	streak, _ := nextStreak(e.state.Streak, e.state.LastActivityDate, today)
	day := formatDay(today)
	if streak == e.state.Streak && day == e.state.LastActivityDate {
		return false
	}
	e.state.Streak = streak
	e.state.LastActivityDate = day
	return true
}

func (e *Engine) unlockLocked(id string) bool {
	if id == "" || slices.Contains(e.state.Achievements, id) {
		return false
	}
	e.state.Achievements = append(e.state.Achievements, id)
	e.pending.Unlocked = append(e.pending.Unlocked, id)
	return true
}

// persistLocked writes the state. Failures are logged and swallowed; the
// in-memory state stays authoritative and the next save reconciles.
func (e *Engine) persistLocked(ctx context.Context) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, e.state.clone()); err != nil {
		e.logger.Warn("persist game state", "error", err)
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	st := e.state.clone()
	return Snapshot{
		State:    st,
		Level:    LevelForXP(st.TotalXP),
		RecentXP: e.recentXP,
		Progress: ProgressForXP(st.TotalXP),
	}
}

func (e *Engine) notify(change Change) {
	e.listenerMu.Lock()
	ls := make([]Listener, 0, len(e.listeners))
	for _, id := range slices.Sorted(maps.Keys(e.listeners)) {
		ls = append(ls, e.listeners[id])
	}
	e.listenerMu.Unlock()

	for _, fn := range ls {
		fn(change)
	}
}
