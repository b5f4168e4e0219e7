package achievements

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/router"
)

type fakeSource struct {
	times map[string]time.Time
	err   error
	calls int
}

func (f *fakeSource) AchievementUnlocks(context.Context) (map[string]time.Time, error) {
	f.calls++
	return f.times, f.err
}

func unlockedSnap(ids ...string) gamestate.Snapshot {
	var snap gamestate.Snapshot
	snap.Achievements = ids
	return snap
}

func TestViewListsRegistry(t *testing.T) {
	s := New(unlockedSnap(gamestate.AchFirstFlashcard), nil)
	if cmd := s.Init(); cmd != nil {
		t.Error("no source should mean no load command")
	}

	out := s.View(100, 60)
	total := len(gamestate.Registry())
	if !strings.Contains(out, "1 of ") || !strings.Contains(out, "unlocked") {
		t.Errorf("missing counter in:\n%s", out)
	}
	for _, a := range gamestate.Registry() {
		if !strings.Contains(out, a.Name) {
			t.Errorf("achievement %q not listed", a.Name)
		}
	}
	if strings.Count(out, "●") != 1 || strings.Count(out, "○") != total-1 {
		t.Error("lock markers do not match the snapshot")
	}
}

func TestUnlockDatesShown(t *testing.T) {
	when := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.Local)
	src := &fakeSource{times: map[string]time.Time{
		gamestate.AchFirstFlashcard: when,
		gamestate.AchStreak3:        when,
	}}
	s := New(unlockedSnap(gamestate.AchFirstFlashcard), src)
	s.Update(s.Init()())

	out := s.View(100, 60)
	if strings.Count(out, "Mar 04 2026") != 1 {
		t.Errorf("only unlocked achievements should show a date:\n%s", out)
	}
}

func TestReloadOnNewUnlock(t *testing.T) {
	src := &fakeSource{times: map[string]time.Time{}}
	s := New(unlockedSnap(), src)

	if _, cmd := s.Update(router.StateChangedMsg{Snapshot: unlockedSnap()}); cmd != nil {
		t.Error("unchanged achievements should not reload")
	}
	_, cmd := s.Update(router.StateChangedMsg{Snapshot: unlockedSnap(gamestate.AchStreak3)})
	if cmd == nil {
		t.Fatal("new unlock should reload dates")
	}
	cmd()
	if src.calls != 1 {
		t.Errorf("calls = %d", src.calls)
	}
	if !strings.Contains(s.View(100, 60), "1 of ") {
		t.Error("snapshot not refreshed")
	}
}

func TestLoadErrorIgnored(t *testing.T) {
	s := New(unlockedSnap(), &fakeSource{err: errors.New("boom")})
	if msg := s.Init()(); msg != nil {
		t.Errorf("got %#v, want nil", msg)
	}
}
