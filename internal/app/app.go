package app

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/logging"
	"github.com/prepdeck/prepdeck/internal/quiz"
	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/screens/achievements"
	"github.com/prepdeck/prepdeck/internal/screens/flashcards"
	"github.com/prepdeck/prepdeck/internal/screens/history"
	"github.com/prepdeck/prepdeck/internal/screens/home"
	"github.com/prepdeck/prepdeck/internal/screens/saved"
	tutorscreen "github.com/prepdeck/prepdeck/internal/screens/tutor"
	"github.com/prepdeck/prepdeck/internal/spacedrep"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/tutor"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Engine *gamestate.Engine
	Deck   *quiz.Deck
	Tutor  *tutor.Tutor

	// Questions backs the saved-questions notebook. Nil disables saving.
	Questions store.QuestionRepo
	// Events backs the XP history and unlock dates. Nil hides history.
	Events store.EventRepo
	// Reviews orders rounds by due date. Nil disables review scheduling.
	Reviews *spacedrep.Scheduler

	// TutorDelay is the minimum time a tutor reply appears to take.
	TutorDelay time.Duration

	// Rand shuffles flashcard rounds. Nil seeds from the clock.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	snap   gamestate.Snapshot
	width  int
	height int
}

// newAppModel creates an AppModel on the home screen with every section
// registered.
func newAppModel(opts Options) AppModel {
	if opts.Rand == nil {
		now := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(now, now>>1))
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	logger := logging.Component(opts.Logger, "app")

	snap := opts.Engine.Snapshot()
	r := router.New(newHome(opts, snap))

	r.Register(router.SectionHome, func(router.NavigateMsg) screen.Screen {
		return newHome(opts, opts.Engine.Snapshot())
	})
	r.Register(router.SectionFlashcards, func(msg router.NavigateMsg) screen.Screen {
		cards := roundCards(opts, msg)
		logger.Debug("start round", "category", msg.Category, "tab", msg.Tab, "cards", len(cards))
		var qopts []quiz.QuizzerOption
		if opts.Reviews != nil {
			qopts = append(qopts, quiz.WithReviews(opts.Reviews))
		}
		round := quiz.NewRound(quiz.NewQuizzer(opts.Engine, qopts...), cards)
		return flashcards.New(round, msg.Category, opts.Questions, opts.Tutor)
	})
	r.Register(router.SectionTutor, func(router.NavigateMsg) screen.Screen {
		return tutorscreen.New(opts.Tutor, opts.Questions, opts.TutorDelay)
	})
	if opts.Questions != nil {
		r.Register(router.SectionSaved, func(router.NavigateMsg) screen.Screen {
			return saved.New(opts.Questions)
		})
	}
	r.Register(router.SectionAchievements, func(router.NavigateMsg) screen.Screen {
		return achievements.New(opts.Engine.Snapshot(), opts.Events)
	})
	if opts.Events != nil {
		r.Register(router.SectionHistory, func(router.NavigateMsg) screen.Screen {
			return history.New(opts.Events)
		})
	}

	return AppModel{router: r, snap: snap}
}

func newHome(opts Options, snap gamestate.Snapshot) *home.HomeScreen {
	var cats []home.Category
	for _, name := range opts.Deck.Categories() {
		cats = append(cats, home.Category{Name: name, Cards: len(opts.Deck.Filter(name))})
	}
	var due func() int
	if opts.Reviews != nil {
		ids := cardIDs(opts.Deck.Cards)
		due = func() int { return len(opts.Reviews.Due(ids)) }
	}
	return home.New(snap, opts.Deck.Name, cats, due)
}

// roundCards picks the cards for a round. Without a scheduler the round is
// a plain shuffle; with one, due cards lead and the review tab keeps only
// those.
func roundCards(opts Options, msg router.NavigateMsg) []quiz.Card {
	cards := quiz.Shuffle(opts.Deck.Filter(msg.Category), opts.Rand)
	if opts.Reviews == nil {
		return cards
	}

	byID := make(map[string]quiz.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	ids := cardIDs(cards)
	if msg.Tab == router.TabReview {
		ids = opts.Reviews.Due(ids)
	} else {
		ids = opts.Reviews.Order(ids)
	}

	out := make([]quiz.Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out
}

func cardIDs(cards []quiz.Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.StateChangedMsg:
		m.snap = msg.Snapshot

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, layout.Stats{
		Level:   m.snap.Level,
		TotalXP: m.snap.TotalXP,
		Streak:  m.snap.Streak,
		Gained:  m.snap.RecentXP,
	}, m.width)

	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), quit)
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quit}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		quit,
	}
}

// Run starts the Bubble Tea program and forwards every game state change
// to the screens until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	unsubscribe := opts.Engine.Subscribe(func(c gamestate.Change) {
		p.Send(router.StateChangedMsg{Snapshot: c.Snapshot})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
