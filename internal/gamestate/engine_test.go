package gamestate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advanceDays(n int) { c.t = c.t.AddDate(0, 0, n) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T) (*Engine, *MemoryStore, *fakeClock) {
	t.Helper()
	st := NewMemoryStore()
	clock := &fakeClock{t: day("2026-03-10 10:00")}
	e := NewEngine(context.Background(), st, WithClock(clock.Now), WithLogger(quietLogger()))
	return e, st, clock
}

func TestNewEngine_Defaults(t *testing.T) {
	e, _, _ := newTestEngine(t)
	snap := e.Snapshot()
	if snap.TotalXP != 0 || snap.Streak != 0 || snap.Level != 1 {
		t.Errorf("unexpected defaults: %+v", snap)
	}
	if len(snap.Achievements) != 0 || len(snap.ToolUsageLog) != 0 {
		t.Errorf("expected empty sets, got %v / %v", snap.Achievements, snap.ToolUsageLog)
	}
}

func TestAwardXP_Sums(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	amounts := []int{10, 5, 40, 1, 99, 300}
	sum := 0
	prevLevel := e.Snapshot().Level
	for _, a := range amounts {
		snap := e.AwardXP(ctx, a, "test")
		sum += a
		if snap.TotalXP != sum {
			t.Fatalf("TotalXP = %d, want %d", snap.TotalXP, sum)
		}
		if snap.RecentXP != a {
			t.Errorf("RecentXP = %d, want %d", snap.RecentXP, a)
		}
		if snap.Level < prevLevel {
			t.Fatalf("level decreased from %d to %d", prevLevel, snap.Level)
		}
		prevLevel = snap.Level
	}
}

func TestAwardXP_IgnoresNonPositive(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	e.AwardXP(ctx, 0, "zero")
	e.AwardXP(ctx, -20, "negative")

	if got := e.Snapshot().TotalXP; got != 0 {
		t.Errorf("TotalXP = %d, want 0", got)
	}
	if st.Saves != 0 {
		t.Errorf("no-op awards should not persist, got %d saves", st.Saves)
	}
}

func TestAwardXP_CapsTotal(t *testing.T) {
	st := NewMemoryStore()
	_ = st.Save(context.Background(), State{TotalXP: MaxTotalXP - 5})
	e := NewEngine(context.Background(), st, WithLogger(quietLogger()))
	ctx := context.Background()

	var awards []Award
	e.Subscribe(func(c Change) { awards = append(awards, c.Awards...) })

	snap := e.AwardXP(ctx, 10, "x")
	if snap.TotalXP != MaxTotalXP {
		t.Fatalf("TotalXP = %d, want %d", snap.TotalXP, MaxTotalXP)
	}
	if len(awards) != 1 || awards[0].Amount != 5 {
		t.Errorf("awards = %+v, want one clipped award of 5", awards)
	}

	snap = e.AwardXP(ctx, math.MaxInt, "x")
	if snap.TotalXP != MaxTotalXP || len(awards) != 1 {
		t.Errorf("award at cap changed state: TotalXP=%d awards=%d", snap.TotalXP, len(awards))
	}
}

func TestNewEngine_CapsLoadedXP(t *testing.T) {
	st := NewMemoryStore()
	_ = st.Save(context.Background(), State{TotalXP: math.MaxInt})
	e := NewEngine(context.Background(), st, WithLogger(quietLogger()))

	snap := e.Snapshot()
	if snap.TotalXP != MaxTotalXP {
		t.Errorf("TotalXP = %d, want %d", snap.TotalXP, MaxTotalXP)
	}
	if snap.Level != LevelForXP(MaxTotalXP) {
		t.Errorf("Level = %d", snap.Level)
	}
}

func TestAwardXP_FirstAttemptStaysLevelOne(t *testing.T) {
	e, _, _ := newTestEngine(t)
	snap := e.AwardXP(context.Background(), 10, ReasonFlashcard)
	if snap.TotalXP != 10 {
		t.Errorf("TotalXP = %d, want 10", snap.TotalXP)
	}
	if snap.Level != 1 {
		t.Errorf("Level = %d, want 1", snap.Level)
	}
}

func TestAwardXP_Persists(t *testing.T) {
	e, st, _ := newTestEngine(t)
	e.AwardXP(context.Background(), 30, "test")

	saved, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.TotalXP != 30 {
		t.Errorf("persisted TotalXP = %d, want 30", saved.TotalXP)
	}
}

func TestLevelProgress_Deterministic(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.AwardXP(context.Background(), 173, "test")

	a := e.LevelProgress()
	b := e.LevelProgress()
	if a != b {
		t.Errorf("LevelProgress not deterministic: %+v vs %+v", a, b)
	}
	if a != ProgressForXP(173) {
		t.Errorf("LevelProgress = %+v, want %+v", a, ProgressForXP(173))
	}
}

func TestRecordActivity_SameDay(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	e.RecordActivity(ctx)
	clock.t = clock.t.Add(5 * time.Hour)
	snap := e.RecordActivity(ctx)

	if snap.Streak != 1 {
		t.Errorf("Streak = %d, want 1", snap.Streak)
	}
	if snap.LastActivityDate != "2026-03-10" {
		t.Errorf("LastActivityDate = %q", snap.LastActivityDate)
	}
}

func TestRecordActivity_ConsecutiveDays(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		snap := e.RecordActivity(ctx)
		if snap.Streak != i {
			t.Fatalf("day %d: Streak = %d, want %d", i, snap.Streak, i)
		}
		clock.advanceDays(1)
	}
}

func TestRecordActivity_GapResets(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	e.RecordActivity(ctx)
	clock.advanceDays(1)
	e.RecordActivity(ctx)
	clock.advanceDays(1)
	if got := e.RecordActivity(ctx).Streak; got != 3 {
		t.Fatalf("Streak = %d, want 3", got)
	}

	clock.advanceDays(2)
	if got := e.RecordActivity(ctx).Streak; got != 1 {
		t.Errorf("after gap Streak = %d, want 1", got)
	}
}

func TestToolUsage_AwardsOnce(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	first := e.ToolUsage(ctx, "tutor")
	second := e.ToolUsage(ctx, "tutor")

	if first.TotalXP != ToolFirstUseXP {
		t.Errorf("first TotalXP = %d, want %d", first.TotalXP, ToolFirstUseXP)
	}
	if second.TotalXP != ToolFirstUseXP {
		t.Errorf("second TotalXP = %d, want %d", second.TotalXP, ToolFirstUseXP)
	}
	if len(second.ToolUsageLog) != 1 {
		t.Errorf("ToolUsageLog = %v, want one entry", second.ToolUsageLog)
	}
}

func TestToolUsage_SurvivesReload(t *testing.T) {
	e, st, clock := newTestEngine(t)
	ctx := context.Background()
	e.ToolUsage(ctx, "flashcards")

	reloaded := NewEngine(ctx, st, WithClock(clock.Now), WithLogger(quietLogger()))
	snap := reloaded.ToolUsage(ctx, "flashcards")
	if snap.TotalXP != ToolFirstUseXP {
		t.Errorf("TotalXP = %d, want %d", snap.TotalXP, ToolFirstUseXP)
	}
}

func TestUnlockAchievement_Idempotent(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	e.unlockAchievement(ctx, "a")
	snap := e.unlockAchievement(ctx, "a")

	count := 0
	for _, id := range snap.Achievements {
		if id == "a" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("achievement 'a' present %d times, want 1", count)
	}
}

func TestFlashcardComplete(t *testing.T) {
	e, _, _ := newTestEngine(t)
	snap := e.FlashcardComplete(context.Background())

	if snap.TotalXP != FlashcardXP {
		t.Errorf("TotalXP = %d, want %d", snap.TotalXP, FlashcardXP)
	}
	if snap.Streak != 1 {
		t.Errorf("Streak = %d, want 1", snap.Streak)
	}
	if snap.FlashcardsCompleted != 1 {
		t.Errorf("FlashcardsCompleted = %d, want 1", snap.FlashcardsCompleted)
	}
	if !snap.HasAchievement(AchFirstFlashcard) {
		t.Errorf("expected %q unlocked, got %v", AchFirstFlashcard, snap.Achievements)
	}
}

func TestFlashcardComplete_StreakAchievement(t *testing.T) {
	e, _, clock := newTestEngine(t)
	ctx := context.Background()

	var snap Snapshot
	for range 3 {
		snap = e.FlashcardComplete(ctx)
		clock.advanceDays(1)
	}
	if !snap.HasAchievement(AchStreak3) {
		t.Errorf("expected %q after 3 days, got %v", AchStreak3, snap.Achievements)
	}

	// A gap resets the streak but never removes the achievement.
	clock.advanceDays(3)
	snap = e.FlashcardComplete(ctx)
	if snap.Streak != 1 {
		t.Errorf("Streak = %d, want 1", snap.Streak)
	}
	if !snap.HasAchievement(AchStreak3) {
		t.Error("achievement was removed after streak reset")
	}
}

func TestQuizComplete(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	snap := e.QuizComplete(ctx, 3, 5)
	if snap.TotalXP != 3*QuizCorrectXP {
		t.Errorf("TotalXP = %d, want %d", snap.TotalXP, 3*QuizCorrectXP)
	}

	snap = e.QuizComplete(ctx, 4, 4)
	want := 3*QuizCorrectXP + 4*QuizCorrectXP + PerfectQuizXP
	if snap.TotalXP != want {
		t.Errorf("TotalXP = %d, want %d", snap.TotalXP, want)
	}
	if snap.QuizzesCompleted != 2 {
		t.Errorf("QuizzesCompleted = %d, want 2", snap.QuizzesCompleted)
	}

	before := snap
	snap = e.QuizComplete(ctx, 0, 0)
	if snap.QuizzesCompleted != before.QuizzesCompleted {
		t.Error("empty quiz should be a no-op")
	}
}

func TestReset(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	e.FlashcardComplete(ctx)
	e.ToolUsage(ctx, "tutor")
	snap := e.Reset(ctx)

	if snap.TotalXP != 0 || snap.Streak != 0 || len(snap.Achievements) != 0 || len(snap.ToolUsageLog) != 0 {
		t.Errorf("reset left state behind: %+v", snap)
	}
	saved, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.TotalXP != 0 {
		t.Errorf("persisted TotalXP = %d, want 0", saved.TotalXP)
	}
}

func TestPersistFailure_KeepsInMemoryState(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	st.SaveErr = errors.New("quota exceeded")
	snap := e.AwardXP(ctx, 20, "test")
	if snap.TotalXP != 20 {
		t.Fatalf("TotalXP = %d, want 20", snap.TotalXP)
	}

	// Next successful save reconciles.
	st.SaveErr = nil
	e.AwardXP(ctx, 5, "test")
	saved, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.TotalXP != 25 {
		t.Errorf("persisted TotalXP = %d, want 25", saved.TotalXP)
	}
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (State, error) {
	return State{}, errors.New("invalid character 'x' looking for beginning of value")
}
func (brokenStore) Save(context.Context, State) error { return nil }

func TestNewEngine_CorruptStateFallsBack(t *testing.T) {
	e := NewEngine(context.Background(), brokenStore{}, WithLogger(quietLogger()))
	if got := e.Snapshot().TotalXP; got != 0 {
		t.Errorf("TotalXP = %d, want 0", got)
	}
}

func TestNewEngine_SanitizesLoadedState(t *testing.T) {
	st := NewMemoryStore()
	_ = st.Save(context.Background(), State{
		TotalXP:          -5,
		Streak:           -1,
		LastActivityDate: "not-a-date",
		Achievements:     []string{"a", "a", "", "b"},
	})
	e := NewEngine(context.Background(), st, WithLogger(quietLogger()))
	snap := e.Snapshot()
	if snap.TotalXP != 0 || snap.Streak != 0 || snap.LastActivityDate != "" {
		t.Errorf("state not sanitized: %+v", snap.State)
	}
	if len(snap.Achievements) != 2 {
		t.Errorf("Achievements = %v, want [a b]", snap.Achievements)
	}
}

func TestSubscribe(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	var changes []Change
	unsubscribe := e.Subscribe(func(c Change) { changes = append(changes, c) })

	e.QuizComplete(ctx, 2, 2)
	e.AwardXP(ctx, 0, "ignored")

	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	c := changes[0]
	if len(c.Awards) != 2 {
		t.Fatalf("Awards = %+v, want quiz + perfect", c.Awards)
	}
	if c.Awards[0].Reason != ReasonQuiz || c.Awards[1].Reason != ReasonPerfectQuiz {
		t.Errorf("unexpected award reasons: %+v", c.Awards)
	}
	if len(c.Unlocked) != 1 || c.Unlocked[0] != AchFirstQuiz {
		t.Errorf("Unlocked = %v, want [%s]", c.Unlocked, AchFirstQuiz)
	}

	unsubscribe()
	e.AwardXP(ctx, 10, "after")
	if len(changes) != 1 {
		t.Errorf("listener called after unsubscribe")
	}
}

func TestSubscribe_Order(t *testing.T) {
	e, _, _ := newTestEngine(t)

	var order []int
	for i := range 5 {
		e.Subscribe(func(Change) { order = append(order, i) })
	}
	e.AwardXP(context.Background(), 5, "x")

	if !slices.Equal(order, []int{0, 1, 2, 3, 4}) {
		t.Errorf("order = %v", order)
	}
}

func TestSubscribe_ConcurrentChangesArriveInOrder(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	var totals []int
	e.Subscribe(func(c Change) { totals = append(totals, c.TotalXP) })

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				e.AwardXP(ctx, 1, "x")
			}
		}()
	}
	wg.Wait()

	if len(totals) != 400 {
		t.Fatalf("got %d changes, want 400", len(totals))
	}
	for i, total := range totals {
		if total != i+1 {
			t.Fatalf("change %d carried TotalXP %d, want %d", i, total, i+1)
		}
	}
}

func TestSnapshot_DoesNotAlias(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.ToolUsage(context.Background(), "tutor")

	snap := e.Snapshot()
	snap.ToolUsageLog[0] = "mutated"

	if e.Snapshot().ToolUsageLog[0] != "tutor" {
		t.Error("snapshot aliases engine state")
	}
}
