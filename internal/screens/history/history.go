package history

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// eventLimit caps how many awards are loaded.
const eventLimit = 500

// XPSource is the slice of store.EventRepo the screen reads.
type XPSource interface {
	QueryXPEvents(ctx context.Context, opts store.QueryOpts) ([]store.XPEventRecord, error)
	XPByReason(ctx context.Context) (map[string]int, error)
}

type historyLoadedMsg struct {
	Events   []store.XPEventRecord
	ByReason map[string]int
	Err      error
}

// day groups the awards of one calendar day, newest first.
type day struct {
	Label  string
	Total  int
	Events []store.XPEventRecord
}

type reasonTotal struct {
	Label  string
	Amount int
}

// HistoryScreen displays XP awards grouped by day.
type HistoryScreen struct {
	source   XPSource
	days     []day
	totals   []reasonTotal
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
	_ router.Sectioned       = (*HistoryScreen)(nil)
)

// New creates a new HistoryScreen.
func New(source XPSource) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	src := s.source
	return func() tea.Msg {
		ctx := context.Background()

		events, err := src.QueryXPEvents(ctx, store.QueryOpts{Limit: eventLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		// Totals are a summary line; the list is still useful without them.
		byReason, err := src.XPByReason(ctx)
		if err != nil {
			byReason = nil
		}
		return historyLoadedMsg{Events: events, ByReason: byReason}
	}
}

func (s *HistoryScreen) Title() string {
	return "XP history"
}

func (s *HistoryScreen) Section() router.Section {
	return router.SectionHistory
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.days = groupByDay(msg.Events)
		s.totals = sortTotals(msg.ByReason)
		s.selected = min(s.selected, max(len(s.days)-1, 0))
		return s, nil

	case router.StateChangedMsg:
		return s, s.load()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.days)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func groupByDay(events []store.XPEventRecord) []day {
	var days []day
	for _, ev := range events {
		label := ev.Timestamp.Local().Format("Mon Jan 02, 2006")
		if n := len(days); n == 0 || days[n-1].Label != label {
			days = append(days, day{Label: label})
		}
		d := &days[len(days)-1]
		d.Total += ev.Amount
		d.Events = append(d.Events, ev)
	}
	return days
}

// sortTotals merges per-tool bonuses under their label and orders by amount.
func sortTotals(byReason map[string]int) []reasonTotal {
	merged := make(map[string]int, len(byReason))
	for reason, amount := range byReason {
		label := gamestate.DescribeReason(reason)
		if base, _, ok := strings.Cut(label, ":"); ok {
			label = base
		}
		merged[label] += amount
	}
	out := make([]reasonTotal, 0, len(merged))
	for label, amount := range merged {
		out = append(out, reasonTotal{Label: label, Amount: amount})
	}
	slices.SortFunc(out, func(a, b reasonTotal) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

func (s *HistoryScreen) View(width, height int) string {
	pad := lipgloss.NewStyle().Width(width).Height(height).Padding(1, 3)
	if s.errMsg != "" {
		return pad.Render(theme.Incorrect.Render("Error: " + s.errMsg))
	}
	if !s.loaded {
		return pad.Render(theme.Hint.Render("Loading history..."))
	}
	if len(s.days) == 0 {
		return pad.Render(theme.Hint.Render("No XP earned yet. Answer a flashcard to get started!"))
	}

	var b strings.Builder
	if len(s.totals) > 0 {
		parts := make([]string, len(s.totals))
		for i, t := range s.totals {
			parts[i] = fmt.Sprintf("%s %d", t.Label, t.Amount)
		}
		b.WriteString(theme.Subtitle.Render("By source  ") + theme.Hint.Render(strings.Join(parts, " · ")) + "\n\n")
	}

	for i, d := range s.days {
		line := fmt.Sprintf("%s   +%d XP   %d award", d.Label, d.Total, len(d.Events))
		if len(d.Events) != 1 {
			line += "s"
		}
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+line) + "\n")
		}

		if !s.expanded[i] {
			continue
		}
		for _, ev := range d.Events {
			detail := fmt.Sprintf("    %s  +%-4d %s", ev.Timestamp.Local().Format("15:04"), ev.Amount, gamestate.DescribeReason(ev.Reason))
			b.WriteString(theme.Hint.Render(detail))
			b.WriteString(theme.Badge.Render(fmt.Sprintf(" Lv %d", ev.Level)) + "\n")
		}
	}

	return pad.Render(b.String())
}
