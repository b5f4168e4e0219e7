package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/store"
	tut "github.com/prepdeck/prepdeck/internal/tutor"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// Asker answers and summarizes. *tut.Tutor implements it.
type Asker interface {
	Ask(ctx context.Context, question string) (tut.Reply, error)
	Summarize(ctx context.Context, answer string) string
}

// maxExchanges bounds the conversation kept on screen.
const maxExchanges = 20

type replyMsg struct {
	seq   int
	reply tut.Reply
	err   error
}

type thinkDoneMsg struct {
	seq int
}

type saveFailedMsg struct {
	err error
}

// Screen is a question-and-answer session with the tutor.
type Screen struct {
	asker     Asker
	questions store.QuestionRepo
	delay     time.Duration

	input     components.TextInput
	history   []tut.Reply
	seq       int
	thinking  bool
	waitOver  bool
	pending   *tut.Reply
	followUp  int
	saved     map[int]bool // history index → saved
	savingIdx int
	errMsg    string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ router.Sectioned       = (*Screen)(nil)
)

// New creates a tutor screen. delay is the minimum time a reply appears to
// take; questions may be nil, which disables saving.
func New(asker Asker, questions store.QuestionRepo, delay time.Duration) *Screen {
	return &Screen{
		asker:     asker,
		questions: questions,
		delay:     delay,
		input:     components.NewTextInput("Ask about Apex, security, flows…", 500, 60),
		saved:     make(map[int]bool),
		savingIdx: -1,
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "Tutor"
}

func (s *Screen) Section() router.Section {
	return router.SectionTutor
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Ask"}}
	if s.last() != nil {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Follow-up"})
		if s.questions != nil {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Save"})
		}
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		if msg.err != nil {
			s.thinking = false
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.pending = &msg.reply
		s.deliver()
		return s, nil

	case thinkDoneMsg:
		if msg.seq == s.seq {
			s.waitOver = true
			s.deliver()
		}
		return s, nil

	case router.QuestionSavedMsg:
		if s.savingIdx >= 0 {
			s.saved[s.savingIdx] = true
			s.savingIdx = -1
		}
		return s, nil

	case saveFailedMsg:
		s.savingIdx = -1
		s.errMsg = "Could not save: " + msg.err.Error()
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return s, s.ask()
		case "tab":
			s.nextFollowUp()
			return s, nil
		case "ctrl+s":
			return s, s.save()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// ask sends the typed question. The reply is shown once it has arrived and
// the thinking delay has passed.
func (s *Screen) ask() tea.Cmd {
	if s.thinking {
		return nil
	}
	q := s.input.Value()
	if q == "" {
		s.errMsg = "Type a question first."
		return nil
	}
	s.errMsg = ""
	s.seq++
	s.thinking = true
	s.pending = nil
	s.waitOver = s.delay <= 0
	s.input.Reset()

	seq, asker := s.seq, s.asker
	cmds := []tea.Cmd{func() tea.Msg {
		reply, err := asker.Ask(context.Background(), q)
		return replyMsg{seq: seq, reply: reply, err: err}
	}}
	if !s.waitOver {
		cmds = append(cmds, tea.Tick(s.delay, func(time.Time) tea.Msg {
			return thinkDoneMsg{seq: seq}
		}))
	}
	return tea.Batch(cmds...)
}

func (s *Screen) deliver() {
	if s.pending == nil || !s.waitOver {
		return
	}
	s.history = append(s.history, *s.pending)
	if len(s.history) > maxExchanges {
		drop := len(s.history) - maxExchanges
		s.history = s.history[drop:]
		saved := make(map[int]bool, len(s.saved))
		for i := range s.saved {
			if i-drop >= 0 {
				saved[i-drop] = true
			}
		}
		s.saved = saved
	}
	s.pending = nil
	s.thinking = false
	s.followUp = 0
}

func (s *Screen) last() *tut.Reply {
	if len(s.history) == 0 {
		return nil
	}
	return &s.history[len(s.history)-1]
}

// nextFollowUp cycles the input through the last reply's suggestions.
func (s *Screen) nextFollowUp() {
	r := s.last()
	if r == nil || len(r.FollowUps) == 0 {
		return
	}
	s.input.Model.SetValue(r.FollowUps[s.followUp%len(r.FollowUps)])
	s.input.Model.CursorEnd()
	s.followUp++
}

// save stores the latest exchange in the notebook.
func (s *Screen) save() tea.Cmd {
	r := s.last()
	idx := len(s.history) - 1
	if r == nil || s.questions == nil || s.saved[idx] || s.savingIdx >= 0 {
		return nil
	}
	s.savingIdx = idx
	reply, repo, asker := *r, s.questions, s.asker
	return func() tea.Msg {
		ctx := context.Background()
		q, err := repo.Save(ctx, store.SavedQuestion{
			Question:   reply.Question,
			Answer:     reply.Explanation,
			Category:   reply.Topic,
			Summarized: asker.Summarize(ctx, reply.Explanation),
		})
		if err != nil {
			return saveFailedMsg{err: err}
		}
		return router.QuestionSavedMsg{ID: q.ID}
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.input.SetWidth(cw - 6)

	var blocks []string
	for i, r := range s.history {
		blocks = append(blocks, renderExchange(r, s.saved[i], cw))
	}
	if s.thinking {
		blocks = append(blocks, theme.Hint.Render("Tutor is thinking…"))
	}
	if len(blocks) == 0 {
		blocks = append(blocks, theme.Hint.Render("Ask anything about the platform. Replies suggest follow-ups you can pick with Tab."))
	}

	convo := strings.Join(blocks, "\n\n")
	footer := s.input.View()
	if s.errMsg != "" {
		footer += "\n" + theme.Incorrect.Render(s.errMsg)
	}

	// Keep the newest exchange visible by trimming from the top.
	avail := max(height-lipgloss.Height(footer)-3, 1)
	lines := strings.Split(convo, "\n")
	if len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 3).
		Render(strings.Join(lines, "\n") + "\n\n" + footer)
}

func renderExchange(r tut.Reply, saved bool, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render("You: ") + theme.Body.Render(r.Question) + "\n")

	title := r.Topic
	if r.Source == tut.SourceLLM {
		title += " ✦"
	}
	b.WriteString(theme.Badge.Render(title))
	if saved {
		b.WriteString("  " + theme.Correct.Render("saved"))
	}
	b.WriteString("\n" + theme.Body.Render(layout.Wrap(r.Explanation, cw)))

	if len(r.FollowUps) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Try next:"))
		for i, f := range r.FollowUps {
			b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("  %d. %s", i+1, f)))
		}
	}
	return b.String()
}
