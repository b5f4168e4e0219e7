package saved

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/store"
)

type memRepo struct {
	items   []store.SavedQuestion
	listErr error
}

func (m *memRepo) Save(_ context.Context, q store.SavedQuestion) (store.SavedQuestion, error) {
	m.items = append([]store.SavedQuestion{q}, m.items...)
	return q, nil
}
func (m *memRepo) Get(_ context.Context, id string) (store.SavedQuestion, error) {
	for _, q := range m.items {
		if q.ID == id {
			return q, nil
		}
	}
	return store.SavedQuestion{}, store.ErrNotFound
}
func (m *memRepo) List(context.Context) ([]store.SavedQuestion, error) {
	return m.items, m.listErr
}
func (m *memRepo) Delete(_ context.Context, id string) error {
	for i, q := range m.items {
		if q.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	return tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
}

func run(s *Screen, cmd tea.Cmd) {
	if cmd != nil {
		s.Update(cmd())
	}
}

func seeded() *memRepo {
	now := time.Now()
	return &memRepo{items: []store.SavedQuestion{
		{ID: "a", Question: "What is a junction object?", Answer: "A junction object has two master-detail fields.", Summarized: "Two master-detail fields.", Timestamp: now},
		{ID: "b", Question: "What is an external ID?", Answer: "A unique identifier from another system.", Timestamp: now.Add(-time.Hour)},
	}}
}

func TestLoadAndExpand(t *testing.T) {
	s := New(seeded())
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading state before Init completes")
	}
	run(s, s.Init())

	out := s.View(100, 30)
	if !strings.Contains(out, "2 saved") || !strings.Contains(out, "Two master-detail fields.") {
		t.Errorf("summary view wrong:\n%s", out)
	}

	s.Update(key("enter"))
	if !strings.Contains(s.View(100, 30), "has two master-detail fields") {
		t.Error("enter should show the full answer")
	}

	s.Update(key("down"))
	if s.selected != 1 || s.expanded {
		t.Errorf("selected=%d expanded=%v", s.selected, s.expanded)
	}
	if !strings.Contains(s.View(100, 30), "another system") {
		t.Error("question without a summary should show its answer")
	}
}

func TestReloadOnQuestionSaved(t *testing.T) {
	repo := seeded()
	s := New(repo)
	run(s, s.Init())

	repo.items = append(repo.items, store.SavedQuestion{ID: "c", Question: "New one", Answer: "x"})
	_, cmd := s.Update(router.QuestionSavedMsg{ID: "c"})
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
	run(s, cmd)
	if len(s.questions) != 3 {
		t.Errorf("questions = %d, want 3", len(s.questions))
	}
}

func TestDeleteWithConfirm(t *testing.T) {
	repo := seeded()
	s := New(repo)
	run(s, s.Init())

	s.Update(key("d"))
	if !s.confirming {
		t.Fatal("d should ask for confirmation")
	}
	_, cmd := s.Update(key("n"))
	if cmd != nil || len(repo.items) != 2 {
		t.Error("declining should keep the question")
	}

	s.Update(key("d"))
	_, cmd = s.Update(key("y"))
	_, reload := s.Update(cmd())
	if len(repo.items) != 1 || repo.items[0].ID != "b" {
		t.Fatalf("repo = %+v", repo.items)
	}
	run(s, reload)
	if len(s.questions) != 1 {
		t.Errorf("screen still shows %d questions", len(s.questions))
	}
}

func TestSelectionClampedAfterShrink(t *testing.T) {
	s := New(seeded())
	run(s, s.Init())
	s.Update(key("down"))

	s.Update(loadedMsg{Questions: s.questions[:1]})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}

func TestEmptyAndError(t *testing.T) {
	s := New(&memRepo{})
	run(s, s.Init())
	if !strings.Contains(s.View(100, 30), "Nothing saved yet") {
		t.Error("empty notebook message missing")
	}

	s = New(&memRepo{listErr: errors.New("db locked")})
	run(s, s.Init())
	if !strings.Contains(s.View(100, 30), "db locked") {
		t.Error("error not shown")
	}
}
