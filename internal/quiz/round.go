package quiz

import (
	"context"
	"errors"

	"github.com/prepdeck/prepdeck/internal/gamestate"
)

// ErrRoundOver is returned when submitting to a finished round.
var ErrRoundOver = errors.New("round is over")

// Summary describes a finished round.
type Summary struct {
	Answered int
	Correct  int
	Skipped  int
	XP       int
	Snapshot gamestate.Snapshot
}

// Round walks through a fixed list of cards once. It is not safe for
// concurrent use; Grade and Complete only read fields fixed at construction,
// so a UI may run them off its event loop and apply the result with Record.
type Round struct {
	quizzer  *Quizzer
	engine   Engine
	cards    []Card
	pos      int
	outcomes []Outcome
	skipped  int
	finished bool
	summary  Summary
}

// NewRound starts a round over cards.
func NewRound(q *Quizzer, cards []Card) *Round {
	return &Round{quizzer: q, engine: q.engine, cards: cards}
}

// Current returns the card awaiting an answer.
func (r *Round) Current() (Card, bool) {
	if r.finished || r.pos >= len(r.cards) {
		return Card{}, false
	}
	return r.cards[r.pos], true
}

// Position returns the 1-based index of the current card and the round size.
func (r *Round) Position() (int, int) {
	return min(r.pos+1, len(r.cards)), len(r.cards)
}

// Submit answers the current card and advances. An empty answer leaves the
// round where it is.
func (r *Round) Submit(ctx context.Context, answer string) (Outcome, error) {
	card, ok := r.Current()
	if !ok {
		return Outcome{}, ErrRoundOver
	}
	out, err := r.Grade(ctx, card, answer)
	if err != nil {
		return Outcome{}, err
	}
	r.Record(out)
	return out, nil
}

// Grade grades answer for card and credits XP without moving the round.
func (r *Round) Grade(ctx context.Context, card Card, answer string) (Outcome, error) {
	return r.quizzer.Submit(ctx, card, answer)
}

// Record stores out for the current card and advances. An outcome for any
// other card is dropped and Record reports false.
func (r *Round) Record(out Outcome) bool {
	card, ok := r.Current()
	if !ok || card.ID != out.Card.ID {
		return false
	}
	r.outcomes = append(r.outcomes, out)
	r.pos++
	return true
}

// Skip moves past the current card without grading it.
func (r *Round) Skip() {
	if _, ok := r.Current(); ok {
		r.pos++
		r.skipped++
	}
}

// Done reports whether every card was answered or skipped.
func (r *Round) Done() bool {
	return r.pos >= len(r.cards)
}

// Outcomes returns the graded answers so far.
func (r *Round) Outcomes() []Outcome {
	return r.outcomes
}

// Finish closes the round and credits the quiz completion. Calling it again
// returns the same summary.
func (r *Round) Finish(ctx context.Context) Summary {
	if r.finished {
		return r.summary
	}
	r.finished = true
	r.summary = r.Complete(ctx, r.Tally())
	return r.summary
}

// Tally counts the answers so far without crediting anything.
func (r *Round) Tally() Summary {
	s := Summary{Answered: len(r.outcomes), Skipped: r.skipped}
	for _, o := range r.outcomes {
		s.XP += o.XP
		if o.Correct() {
			s.Correct++
		}
	}
	return s
}

// Complete credits the quiz completion for a tally and fills in the XP and
// snapshot. A tally with no answers credits nothing.
func (r *Round) Complete(ctx context.Context, s Summary) Summary {
	if s.Answered == 0 {
		s.Snapshot = r.engine.Snapshot()
	} else {
		s.Snapshot = r.engine.QuizComplete(ctx, s.Correct, s.Answered)
		s.XP += s.Correct * gamestate.QuizCorrectXP
		if s.Correct == s.Answered {
			s.XP += gamestate.PerfectQuizXP
		}
	}
	return s
}
