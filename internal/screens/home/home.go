package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

const banner = `┏━┓┏━┓┏━╸┏━┓╺┳┓┏━╸┏━╸╻┏
┣━┛┣┳┛┣╸ ┣━┛ ┃┃┣╸ ┃  ┣┻┓
╹  ╹┗╸┗━╸╹  ╺┻┛┗━╸┗━╸╹ ╹`

// Category is a deck category with its card count.
type Category struct {
	Name  string
	Cards int
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu     components.Menu
	snap     gamestate.Snapshot
	deckName string
	due      func() int
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
	_ router.Sectioned       = (*HomeScreen)(nil)
)

// New creates the home screen for a deck split into categories. due
// reports how many cards are due for review; nil hides the review entry.
func New(snap gamestate.Snapshot, deckName string, categories []Category, due func() int) *HomeScreen {
	total := 0
	for _, c := range categories {
		total += c.Cards
	}

	items := []components.MenuItem{
		{Label: "Flashcards", Hint: cardCount(total), Action: navigate(router.NavigateMsg{Section: router.SectionFlashcards})},
	}
	for _, c := range categories {
		items = append(items, components.MenuItem{
			Label:  "  " + c.Name,
			Hint:   cardCount(c.Cards),
			Action: navigate(router.NavigateMsg{Section: router.SectionFlashcards, Category: c.Name}),
		})
	}
	if due != nil {
		items = append(items, components.MenuItem{
			Label:  "Review due cards",
			Action: navigate(router.NavigateMsg{Section: router.SectionFlashcards, Tab: router.TabReview}),
		})
	}
	items = append(items,
		components.MenuItem{Label: "Ask the tutor", Action: navigate(router.NavigateMsg{Section: router.SectionTutor})},
		components.MenuItem{Label: "Saved questions", Action: navigate(router.NavigateMsg{Section: router.SectionSaved})},
		components.MenuItem{Label: "Achievements", Action: navigate(router.NavigateMsg{Section: router.SectionAchievements})},
		components.MenuItem{Label: "XP history", Action: navigate(router.NavigateMsg{Section: router.SectionHistory})},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)

	return &HomeScreen{
		menu:     components.NewMenu(items),
		snap:     snap,
		deckName: deckName,
		due:      due,
	}
}

func navigate(msg router.NavigateMsg) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return msg }
	}
}

func cardCount(n int) string {
	if n == 1 {
		return "1 card"
	}
	return fmt.Sprintf("%d cards", n)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Section() router.Section {
	return router.SectionHome
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(router.StateChangedMsg); ok {
		h.snap = m.Snapshot
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	var sections []string
	if !compact {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(banner))
	}
	if h.deckName != "" {
		sections = append(sections, theme.Subtitle.Render(h.deckName))
	}
	stats := renderStats(h.snap, cw)
	if h.due != nil {
		if n := h.due(); n > 0 {
			stats += "\n" + theme.Badge.Render(cardCount(n)) + " " + theme.Subtitle.Render("due for review")
		}
	}
	sections = append(sections, stats)
	sections = append(sections, h.menu.View())

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 3).
		Render(strings.Join(sections, "\n\n"))
}

func renderStats(snap gamestate.Snapshot, cw int) string {
	p := snap.Progress
	caption := fmt.Sprintf("%d / %d XP", p.XPInCurrentLevel, p.XPNeededForNextLevel)
	bar := components.NewProgressBar(fmt.Sprintf("Level %d", snap.Level), p.ProgressPercent, caption, cw)

	accent := theme.Badge
	dim := theme.Subtitle
	line := fmt.Sprintf("%s %s   %s %s   %s %s",
		accent.Render(fmt.Sprint(snap.TotalXP)), dim.Render("XP"),
		accent.Render(fmt.Sprint(snap.Streak)), dim.Render("day streak"),
		accent.Render(fmt.Sprintf("%d/%d", len(snap.Achievements), len(gamestate.Registry()))), dim.Render("achievements"),
	)
	return bar.View() + "\n" + line
}
