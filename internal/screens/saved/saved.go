package saved

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

type loadedMsg struct {
	Questions []store.SavedQuestion
	Err       error
}

type deletedMsg struct {
	ID  string
	Err error
}

// Screen lists the saved-questions notebook.
type Screen struct {
	repo       store.QuestionRepo
	questions  []store.SavedQuestion
	selected   int
	expanded   bool
	confirming bool
	loaded     bool
	errMsg     string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ router.Sectioned       = (*Screen)(nil)
)

// New creates the notebook screen.
func New(repo store.QuestionRepo) *Screen {
	return &Screen{repo: repo}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

func (s *Screen) Title() string {
	return "Saved questions"
}

func (s *Screen) Section() router.Section {
	return router.SectionSaved
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Full answer"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) load() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		qs, err := repo.List(context.Background())
		return loadedMsg{Questions: qs, Err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.questions = msg.Questions
		s.selected = min(s.selected, max(len(s.questions)-1, 0))
		return s, nil

	case router.QuestionSavedMsg:
		return s, s.load()

	case deletedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.load()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.confirming {
		s.confirming = false
		if msg.String() == "y" {
			return s, s.deleteSelected()
		}
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
			s.expanded = false
		}
	case "down", "j":
		if s.selected < len(s.questions)-1 {
			s.selected++
			s.expanded = false
		}
	case "enter":
		s.expanded = !s.expanded
	case "d", "delete":
		if len(s.questions) > 0 {
			s.confirming = true
		}
	}
	return s, nil
}

func (s *Screen) deleteSelected() tea.Cmd {
	if s.selected >= len(s.questions) {
		return nil
	}
	id, repo := s.questions[s.selected].ID, s.repo
	return func() tea.Msg {
		return deletedMsg{ID: id, Err: repo.Delete(context.Background(), id)}
	}
}

func (s *Screen) View(width, height int) string {
	pad := lipgloss.NewStyle().Width(width).Height(height).Padding(1, 3)
	if s.errMsg != "" {
		return pad.Render(theme.Incorrect.Render("Error: " + s.errMsg))
	}
	if !s.loaded {
		return pad.Render(theme.Hint.Render("Loading notebook…"))
	}
	if len(s.questions) == 0 {
		return pad.Render(theme.Hint.Render("Nothing saved yet. Press S after answering a flashcard, or Ctrl+S in the tutor."))
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d saved", len(s.questions))) + "\n\n")

	for i, q := range s.questions {
		date := q.Timestamp.Local().Format("Jan 02")
		line := fmt.Sprintf("%s  %s", date, q.Question)
		if q.Category != "" {
			line += "  [" + q.Category + "]"
		}
		if i != s.selected {
			b.WriteString(theme.Unselected.Render("  "+line) + "\n")
			continue
		}
		b.WriteString(theme.Selected.Render("▸ "+line) + "\n")

		text := q.Summarized
		if s.expanded || text == "" {
			text = q.Answer
		}
		b.WriteString(components.Panel("", theme.Body.Render(layout.Wrap(text, cw-6)), cw) + "\n")
		if s.confirming {
			b.WriteString(theme.Incorrect.Render("Delete this question? (y/n)") + "\n")
		}
	}
	return pad.Render(b.String())
}
