// Package quiz runs flashcard practice: it grades answers and credits XP
// through the game state engine.
package quiz

import (
	"context"
	"errors"
	"strings"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/grading"
)

// ErrEmptyAnswer is returned when the submitted answer is blank.
var ErrEmptyAnswer = errors.New("answer is empty")

// ReasonHighScore is the XP reason for the grading bonus.
const ReasonHighScore = gamestate.ReasonHighScore

// BonusThreshold is the lowest score that earns a bonus and counts as a
// correct answer in a round.
const BonusThreshold = 60

// BonusXP returns the extra XP for a graded score.
func BonusXP(score int) int {
	switch {
	case score >= grading.MaxScore:
		return 20
	case score >= 80:
		return 15
	case score >= BonusThreshold:
		return 10
	}
	return 0
}

// Engine is the part of the game state engine the quizzer drives.
type Engine interface {
	Snapshot() gamestate.Snapshot
	FlashcardComplete(ctx context.Context) gamestate.Snapshot
	AwardXP(ctx context.Context, amount int, reason string) gamestate.Snapshot
	QuizComplete(ctx context.Context, correct, total int) gamestate.Snapshot
}

// Outcome is the result of one submitted answer.
type Outcome struct {
	Card     Card
	Answer   string
	Result   grading.Result
	XP       int // total XP credited for this answer
	Bonus    int
	Snapshot gamestate.Snapshot
}

// Correct reports whether the answer counts as correct.
func (o Outcome) Correct() bool {
	return o.Result.Score >= BonusThreshold
}

// ReviewRecorder schedules the next review of a card.
type ReviewRecorder interface {
	Record(ctx context.Context, cardID string, correct bool)
}

// Quizzer grades answers and credits XP.
type Quizzer struct {
	engine  Engine
	reviews ReviewRecorder
}

// QuizzerOption configures a Quizzer.
type QuizzerOption func(*Quizzer)

// WithReviews records every graded answer with r.
func WithReviews(r ReviewRecorder) QuizzerOption {
	return func(q *Quizzer) { q.reviews = r }
}

// NewQuizzer returns a Quizzer that credits XP to engine.
func NewQuizzer(engine Engine, opts ...QuizzerOption) *Quizzer {
	q := &Quizzer{engine: engine}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Submit grades answer against the card's reference answer.
func (q *Quizzer) Submit(ctx context.Context, card Card, answer string) (Outcome, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Outcome{}, ErrEmptyAnswer
	}

	res := grading.Grade(answer, card.Answer)
	out := Outcome{
		Card:   card,
		Answer: answer,
		Result: res,
		XP:     gamestate.FlashcardXP,
	}
	out.Snapshot = q.engine.FlashcardComplete(ctx)

	if bonus := BonusXP(res.Score); bonus > 0 {
		out.Bonus = bonus
		out.XP += bonus
		out.Snapshot = q.engine.AwardXP(ctx, bonus, ReasonHighScore)
	}
	if q.reviews != nil {
		q.reviews.Record(ctx, card.ID, out.Correct())
	}
	return out, nil
}
