package achievements

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// UnlockSource reports when each achievement was first unlocked.
type UnlockSource interface {
	AchievementUnlocks(ctx context.Context) (map[string]time.Time, error)
}

type unlocksMsg struct {
	times map[string]time.Time
}

// Screen shows every achievement and whether it is unlocked.
type Screen struct {
	snap   gamestate.Snapshot
	source UnlockSource
	times  map[string]time.Time
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ router.Sectioned       = (*Screen)(nil)
)

// New creates the achievements screen. source may be nil, in which case
// unlock dates are not shown.
func New(snap gamestate.Snapshot, source UnlockSource) *Screen {
	return &Screen{snap: snap, source: source}
}

func (s *Screen) Init() tea.Cmd {
	return s.loadTimes()
}

func (s *Screen) Title() string {
	return "Achievements"
}

func (s *Screen) Section() router.Section {
	return router.SectionAchievements
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

// Unlock times are cosmetic, so load failures are dropped.
func (s *Screen) loadTimes() tea.Cmd {
	if s.source == nil {
		return nil
	}
	src := s.source
	return func() tea.Msg {
		times, err := src.AchievementUnlocks(context.Background())
		if err != nil {
			return nil
		}
		return unlocksMsg{times: times}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case unlocksMsg:
		s.times = msg.times
	case router.StateChangedMsg:
		before := len(s.snap.Achievements)
		s.snap = msg.Snapshot
		if len(s.snap.Achievements) != before {
			return s, s.loadTimes()
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	reg := gamestate.Registry()

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d of %d unlocked", len(s.snap.Achievements), len(reg))) + "\n\n")

	for _, a := range reg {
		unlocked := s.snap.HasAchievement(a.ID)
		mark, nameStyle := "○", theme.Unselected
		if unlocked {
			mark, nameStyle = "●", theme.Correct
		}
		line := nameStyle.Render(fmt.Sprintf("%s %s", mark, a.Name)) + "  " + tierBadge(a.Tier)
		if t, ok := s.times[a.ID]; ok && unlocked {
			line += "  " + theme.Hint.Render(t.Local().Format("Jan 02 2006"))
		}
		b.WriteString(line + "\n")
		b.WriteString(theme.Hint.Render(layout.Wrap("   "+a.Description, cw)) + "\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 3).Render(b.String())
}

func tierBadge(t gamestate.Tier) string {
	c := theme.TextDim
	switch t {
	case gamestate.TierGold:
		c = theme.Accent
	case gamestate.TierSilver:
		c = theme.Secondary
	}
	return lipgloss.NewStyle().Foreground(c).Render(string(t))
}
