package flashcards

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/prepdeck/prepdeck/internal/quiz"
	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
)

// Summarizer shortens a reference answer for the saved-questions notebook.
type Summarizer interface {
	Summarize(ctx context.Context, answer string) string
}

type phase int

const (
	phaseAnswer phase = iota
	phaseGrading
	phaseFeedback
	phaseSummary
)

// gradedMsg carries the outcome of a submitted answer.
type gradedMsg struct {
	Outcome quiz.Outcome
	Err     error
}

// finishedMsg carries the closed round.
type finishedMsg struct {
	Summary quiz.Summary
}

// saveFailedMsg reports a notebook write error.
type saveFailedMsg struct {
	Err error
}

// Screen runs one flashcard round.
type Screen struct {
	round      *quiz.Round
	questions  store.QuestionRepo
	summarizer Summarizer
	category   string

	phase       phase
	input       components.TextInput
	showHint    bool
	last        quiz.Outcome
	summary     quiz.Summary
	saved       map[string]bool // card IDs already in the notebook
	pendingSave string
	errMsg      string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ router.Sectioned       = (*Screen)(nil)
)

// New creates a flashcard screen over round. questions and summarizer may
// be nil; saving is then unavailable or stores the full answer.
func New(round *quiz.Round, category string, questions store.QuestionRepo, summarizer Summarizer) *Screen {
	return &Screen{
		round:      round,
		questions:  questions,
		summarizer: summarizer,
		category:   category,
		input:      components.NewTextInput("Type your answer and press Enter", 2000, 60),
		saved:      make(map[string]bool),
	}
}

func (s *Screen) Init() tea.Cmd {
	if s.round.Done() {
		return s.finish()
	}
	return s.input.Init()
}

func (s *Screen) Title() string {
	if s.category != "" {
		return "Flashcards · " + s.category
	}
	return "Flashcards"
}

func (s *Screen) Section() router.Section {
	return router.SectionFlashcards
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswer:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Hint"},
			{Key: "Ctrl+N", Description: "Skip"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseFeedback:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if s.questions != nil {
			hints = append(hints, layout.KeyHint{Key: "S", Description: "Save question"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	case phaseSummary:
		return []layout.KeyHint{{Key: "Enter", Description: "Done"}}
	}
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case gradedMsg:
		return s.handleGraded(msg)

	case finishedMsg:
		s.summary = msg.Summary
		s.phase = phaseSummary
		return s, nil

	case router.QuestionSavedMsg:
		if s.pendingSave != "" {
			s.saved[s.pendingSave] = true
			s.pendingSave = ""
		}
		return s, nil

	case saveFailedMsg:
		s.pendingSave = ""
		s.errMsg = "Could not save: " + msg.Err.Error()
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswer {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseAnswer:
		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "tab":
			s.showHint = !s.showHint
			return s, nil
		case "ctrl+n":
			s.round.Skip()
			return s, s.advance()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseFeedback:
		switch msg.String() {
		case "enter", "n", "space":
			return s, s.advance()
		case "s":
			return s, s.save()
		}

	case phaseSummary:
		if msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// submit grades the typed answer. Blank input never reaches the engine.
// The round only moves when the graded result comes back through Update.
func (s *Screen) submit() tea.Cmd {
	answer := s.input.Value()
	if answer == "" {
		s.errMsg = "Type an answer first."
		return nil
	}
	card, ok := s.round.Current()
	if !ok {
		return s.finish()
	}
	s.errMsg = ""
	s.phase = phaseGrading
	round := s.round
	return func() tea.Msg {
		out, err := round.Grade(context.Background(), card, answer)
		return gradedMsg{Outcome: out, Err: err}
	}
}

func (s *Screen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseAnswer
		if errors.Is(msg.Err, quiz.ErrEmptyAnswer) {
			s.errMsg = "Type an answer first."
		} else {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	s.round.Record(msg.Outcome)
	s.last = msg.Outcome
	s.phase = phaseFeedback
	return s, nil
}

// advance shows the next card or closes the round.
func (s *Screen) advance() tea.Cmd {
	s.showHint = false
	s.errMsg = ""
	s.input.Reset()
	if s.round.Done() {
		return s.finish()
	}
	s.phase = phaseAnswer
	return nil
}

func (s *Screen) finish() tea.Cmd {
	s.phase = phaseGrading
	round, tally := s.round, s.round.Tally()
	return func() tea.Msg {
		return finishedMsg{Summary: round.Complete(context.Background(), tally)}
	}
}

// save stores the last card in the notebook. The router broadcasts the
// resulting QuestionSavedMsg.
func (s *Screen) save() tea.Cmd {
	card := s.last.Card
	if s.questions == nil || s.saved[card.ID] || s.pendingSave != "" {
		return nil
	}
	s.pendingSave = card.ID
	repo, sum := s.questions, s.summarizer
	return func() tea.Msg {
		ctx := context.Background()
		summary := card.Answer
		if sum != nil {
			summary = sum.Summarize(ctx, card.Answer)
		}
		q, err := repo.Save(ctx, store.SavedQuestion{
			Question:   card.Question,
			Answer:     card.Answer,
			Category:   card.Category,
			Summarized: summary,
		})
		if err != nil {
			return saveFailedMsg{Err: err}
		}
		return router.QuestionSavedMsg{ID: q.ID}
	}
}
