package quiz

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/gamestate"
)

var (
	lookupCard = Card{
		ID:       "lookup",
		Category: "data-model",
		Question: "Lookup vs master-detail?",
		Answer:   "Lookup relationships are optional and do not cascade delete",
	}
	governorCard = Card{
		ID:       "governor",
		Category: "apex",
		Question: "What are governor limits?",
		Answer:   "Governor limits restrict the number of SOQL queries per transaction",
	}
	triggerCard = Card{
		ID:       "trigger",
		Category: "apex",
		Question: "When do triggers run?",
		Answer:   "Triggers run before or after records are inserted, updated, or deleted",
	}
)

const goodLookupAnswer = "lookup relationships optional no cascade delete"

func newTestEngine(t *testing.T) *gamestate.Engine {
	t.Helper()
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	return gamestate.NewEngine(context.Background(), gamestate.NewMemoryStore(),
		gamestate.WithClock(func() time.Time { return now }),
		gamestate.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestBonusXP(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 0},
		{59, 0},
		{60, 10},
		{79, 10},
		{80, 15},
		{99, 15},
		{100, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BonusXP(tt.score), "score %d", tt.score)
	}
}

func TestSubmit_EmptyAnswer(t *testing.T) {
	eng := newTestEngine(t)
	q := NewQuizzer(eng)

	for _, answer := range []string{"", "   ", "\n\t"} {
		_, err := q.Submit(context.Background(), lookupCard, answer)
		require.ErrorIs(t, err, ErrEmptyAnswer)
	}

	snap := eng.Snapshot()
	assert.Zero(t, snap.TotalXP)
	assert.Zero(t, snap.FlashcardsCompleted)
	assert.Empty(t, snap.LastActivityDate)
}

func TestSubmit_GoodAnswerEarnsBonus(t *testing.T) {
	eng := newTestEngine(t)
	q := NewQuizzer(eng)

	out, err := q.Submit(context.Background(), lookupCard, "  "+goodLookupAnswer+"  ")
	require.NoError(t, err)

	assert.Equal(t, goodLookupAnswer, out.Answer)
	assert.Equal(t, 100, out.Result.Score)
	assert.True(t, out.Correct())
	assert.Equal(t, 20, out.Bonus)
	assert.Equal(t, gamestate.FlashcardXP+20, out.XP)

	assert.Equal(t, 30, out.Snapshot.TotalXP)
	assert.Equal(t, 1, out.Snapshot.FlashcardsCompleted)
	assert.Equal(t, 1, out.Snapshot.Streak)
	assert.True(t, out.Snapshot.HasAchievement(gamestate.AchFirstFlashcard))
	assert.Equal(t, eng.Snapshot().TotalXP, out.Snapshot.TotalXP)
}

func TestSubmit_PoorAnswerEarnsBaseXPOnly(t *testing.T) {
	eng := newTestEngine(t)
	q := NewQuizzer(eng)

	out, err := q.Submit(context.Background(), governorCard, "Plants need sunlight")
	require.NoError(t, err)

	assert.Equal(t, 0, out.Result.Score)
	assert.False(t, out.Correct())
	assert.Zero(t, out.Bonus)
	assert.Equal(t, gamestate.FlashcardXP, out.XP)
	assert.Equal(t, gamestate.FlashcardXP, eng.Snapshot().TotalXP)
}

func TestSubmit_PartialAnswerAtThreshold(t *testing.T) {
	eng := newTestEngine(t)
	q := NewQuizzer(eng)

	out, err := q.Submit(context.Background(), triggerCard, "Triggers fire on insert")
	require.NoError(t, err)

	assert.Equal(t, BonusThreshold, out.Result.Score)
	assert.True(t, out.Correct())
	assert.Equal(t, 20, out.XP)
}

type reviewLog map[string]bool

func (r reviewLog) Record(_ context.Context, cardID string, correct bool) {
	r[cardID] = correct
}

func TestSubmit_RecordsReview(t *testing.T) {
	eng := newTestEngine(t)
	log := reviewLog{}
	q := NewQuizzer(eng, WithReviews(log))
	ctx := context.Background()

	_, err := q.Submit(ctx, lookupCard, goodLookupAnswer)
	require.NoError(t, err)
	_, err = q.Submit(ctx, governorCard, "Plants need sunlight")
	require.NoError(t, err)
	_, err = q.Submit(ctx, triggerCard, " ")
	require.ErrorIs(t, err, ErrEmptyAnswer)

	assert.Equal(t, reviewLog{lookupCard.ID: true, governorCard.ID: false}, log)
}

func TestRound(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	r := NewRound(NewQuizzer(eng), []Card{lookupCard, governorCard, triggerCard})

	card, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "lookup", card.ID)
	pos, total := r.Position()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 3, total)

	_, err := r.Submit(ctx, "")
	require.ErrorIs(t, err, ErrEmptyAnswer)
	card, _ = r.Current()
	assert.Equal(t, "lookup", card.ID, "empty answer does not advance")

	_, err = r.Submit(ctx, goodLookupAnswer)
	require.NoError(t, err)
	_, err = r.Submit(ctx, "Plants need sunlight")
	require.NoError(t, err)
	r.Skip()

	assert.True(t, r.Done())
	_, err = r.Submit(ctx, "anything")
	require.ErrorIs(t, err, ErrRoundOver)

	sum := r.Finish(ctx)
	assert.Equal(t, 2, sum.Answered)
	assert.Equal(t, 1, sum.Correct)
	assert.Equal(t, 1, sum.Skipped)
	// 30 + 10 for the answers, 5 for one correct answer.
	assert.Equal(t, 45, sum.XP)
	assert.Equal(t, 45, sum.Snapshot.TotalXP)
	assert.Equal(t, 1, sum.Snapshot.QuizzesCompleted)
	assert.True(t, sum.Snapshot.HasAchievement(gamestate.AchFirstQuiz))

	again := r.Finish(ctx)
	assert.Equal(t, sum, again)
	assert.Equal(t, 1, eng.Snapshot().QuizzesCompleted)
}

func TestRound_GradeThenRecord(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	r := NewRound(NewQuizzer(eng), []Card{lookupCard, governorCard})

	out, err := r.Grade(ctx, lookupCard, goodLookupAnswer)
	require.NoError(t, err)
	pos, _ := r.Position()
	assert.Equal(t, 1, pos, "grading alone must not advance")
	assert.Equal(t, 30, eng.Snapshot().TotalXP)

	stale := out
	stale.Card = governorCard
	assert.False(t, r.Record(stale), "outcome for another card")
	assert.True(t, r.Record(out))
	assert.False(t, r.Record(out), "outcome recorded twice")

	card, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, governorCard.ID, card.ID)

	tally := r.Tally()
	assert.Equal(t, 1, tally.Answered)
	sum := r.Complete(ctx, tally)
	assert.Equal(t, 1, sum.Snapshot.QuizzesCompleted)
}

func TestRound_Perfect(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	r := NewRound(NewQuizzer(eng), []Card{lookupCard})

	_, err := r.Submit(ctx, goodLookupAnswer)
	require.NoError(t, err)

	sum := r.Finish(ctx)
	assert.Equal(t, 30+gamestate.QuizCorrectXP+gamestate.PerfectQuizXP, sum.XP)
	assert.Equal(t, sum.XP, eng.Snapshot().TotalXP)
}

func TestRound_AllSkipped(t *testing.T) {
	eng := newTestEngine(t)
	r := NewRound(NewQuizzer(eng), []Card{lookupCard, governorCard})
	r.Skip()
	r.Skip()
	r.Skip()

	sum := r.Finish(context.Background())
	assert.Equal(t, 2, sum.Skipped)
	assert.Zero(t, sum.Answered)
	assert.Zero(t, sum.Snapshot.QuizzesCompleted)
}

func TestBuiltinDeck(t *testing.T) {
	d, err := Builtin()
	require.NoError(t, err)
	require.NotEmpty(t, d.Cards)

	cats := d.Categories()
	assert.Contains(t, cats, "apex")
	assert.Contains(t, cats, "security")

	for _, cat := range cats {
		for _, c := range d.Filter(cat) {
			assert.Equal(t, cat, c.Category)
		}
	}
	assert.Len(t, d.Filter(""), len(d.Cards))

	c, ok := d.Card("dm-lookup-vs-md")
	require.True(t, ok)
	assert.NotEmpty(t, c.Hint)
}

func TestBuiltinDeck_ReferenceAnswersGradeHigh(t *testing.T) {
	d, err := Builtin()
	require.NoError(t, err)

	eng := newTestEngine(t)
	q := NewQuizzer(eng)
	for _, c := range d.Cards {
		out, err := q.Submit(context.Background(), c, c.Answer)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Result.Score, 80, c.ID)
	}
}

func TestParseDeck_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no cards", "name: empty\ncards: []\n"},
		{"missing id", "cards:\n  - question: q\n    answer: a\n"},
		{"duplicate id", "cards:\n  - {id: x, question: q, answer: a}\n  - {id: x, question: q2, answer: a2}\n"},
		{"missing answer", "cards:\n  - {id: x, question: q}\n"},
		{"unknown field", "cards:\n  - {id: x, question: q, answer: a, points: 3}\n"},
		{"not yaml", "cards: [\n"},
		{"bad version", "version: 1.0\ncards:\n  - {id: x, question: q, answer: a}\n"},
		{"bad requires", "requires: latest\ncards:\n  - {id: x, question: q, answer: a}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeck(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDeck_CheckCompatible(t *testing.T) {
	d, err := ParseDeck(strings.NewReader("name: new\nversion: v2.0.0\nrequires: v0.3.0\ncards:\n  - {id: x, question: q, answer: a}\n"))
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", d.Version)

	assert.NoError(t, d.CheckCompatible("v0.3.0"))
	assert.NoError(t, d.CheckCompatible("v1.0.0"))
	assert.NoError(t, d.CheckCompatible("(devel)"))
	assert.ErrorIs(t, d.CheckCompatible("v0.2.9"), ErrIncompatibleDeck)

	d.Requires = ""
	assert.NoError(t, d.CheckCompatible("v0.0.1"))
}

func TestBuiltinDeck_Version(t *testing.T) {
	d, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, "v1.1.0", d.Version)
	assert.NoError(t, d.CheckCompatible("v0.1.0"))
}

func TestShuffle(t *testing.T) {
	cards := []Card{lookupCard, governorCard, triggerCard}

	a := Shuffle(cards, rand.New(rand.NewPCG(1, 2)))
	b := Shuffle(cards, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b, "same seed, same order")
	assert.ElementsMatch(t, cards, a)
	assert.Equal(t, "lookup", cards[0].ID, "input untouched")
}
