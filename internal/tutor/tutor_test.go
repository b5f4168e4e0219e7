package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/llm"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine() *gamestate.Engine {
	return gamestate.NewEngine(context.Background(), gamestate.NewMemoryStore(), gamestate.WithLogger(quietLogger()))
}

const longAnswer = "Lookup relationships are optional and do not cascade delete. " +
	"Master-detail relationships are required and the detail record inherits sharing and ownership from the master. " +
	"Deleting the master cascades to details. Roll-up summary fields are only available on master-detail."

func TestAsk_Rules(t *testing.T) {
	eng := newEngine()
	tu := New(eng, WithLogger(quietLogger()))
	ctx := context.Background()

	r, err := tu.Ask(ctx, "  How do I avoid hitting governor limits with SOQL?  ")
	require.NoError(t, err)
	assert.Equal(t, "Governor limits", r.Topic)
	assert.Equal(t, SourceRules, r.Source)
	assert.True(t, r.Matched)
	assert.Equal(t, "How do I avoid hitting governor limits with SOQL?", r.Question)
	assert.NotEmpty(t, r.FollowUps)

	snap := eng.Snapshot()
	assert.True(t, snap.ToolUsed(ToolID))
	assert.Equal(t, gamestate.ToolFirstUseXP, snap.TotalXP)

	_, err = tu.Ask(ctx, "What is a junction object?")
	require.NoError(t, err)
	assert.Equal(t, gamestate.ToolFirstUseXP, eng.Snapshot().TotalXP, "first-use bonus is paid once")
}

func TestAsk_RuleSelection(t *testing.T) {
	tu := New(nil)
	tests := []struct {
		question string
		topic    string
	}{
		{"Lookup vs master-detail?", "Relationships"},
		{"When do I use a permission set instead of a profile?", "Security model"},
		{"Should a trigger call a batch job?", "Triggers"},
		{"Queueable or future method?", "Asynchronous Apex"},
		{"How does @wire work in LWC?", "Lightning Web Components"},
	}
	for _, tt := range tests {
		r, err := tu.Ask(context.Background(), tt.question)
		require.NoError(t, err)
		assert.Equal(t, tt.topic, r.Topic, tt.question)
	}
}

func TestAsk_Fallback(t *testing.T) {
	r, err := New(nil).Ask(context.Background(), "What's your favourite colour?")
	require.NoError(t, err)
	assert.False(t, r.Matched)
	assert.Equal(t, "General", r.Topic)
	assert.Equal(t, fallbackExplanation, r.Explanation)
}

func TestAsk_Empty(t *testing.T) {
	eng := newEngine()
	_, err := New(eng).Ask(context.Background(), " \n ")
	require.ErrorIs(t, err, ErrEmptyQuestion)
	assert.False(t, eng.Snapshot().ToolUsed(ToolID))
}

func TestAsk_Provider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"topic":"Sharing","explanation":"OWD sets the floor.","follow_ups":["What is a sharing set?"]}`),
	})
	eng := newEngine()
	tu := New(eng, WithProvider(mock), WithLogger(quietLogger()))

	r, err := tu.Ask(context.Background(), "Explain the sharing model")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, r.Source)
	assert.Equal(t, "Sharing", r.Topic)
	assert.Equal(t, "OWD sets the floor.", r.Explanation)
	assert.Equal(t, []string{"What is a sharing set?"}, r.FollowUps)
	assert.True(t, eng.Snapshot().ToolUsed(ToolID))

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, ReplySchema, mock.Calls[0].Schema)
	assert.Equal(t, "Explain the sharing model", mock.Calls[0].Messages[0].Content)
}

func TestAsk_ProviderFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"schema mismatch", llm.MockResponse{Content: json.RawMessage(`{"answer":"x"}`)}},
		{"empty explanation", llm.MockResponse{Content: json.RawMessage(`{"topic":"x","explanation":" ","follow_ups":[]}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newEngine()
			tu := New(eng, WithProvider(llm.NewMockProvider(tt.resp)), WithLogger(quietLogger()))

			r, err := tu.Ask(context.Background(), "What are governor limits?")
			require.NoError(t, err)
			assert.Equal(t, SourceRules, r.Source)
			assert.Equal(t, "Governor limits", r.Topic)
			assert.True(t, eng.Snapshot().ToolUsed(ToolID))
		})
	}
}

func TestSummarize_ShortAnswerKept(t *testing.T) {
	got := New(nil).Summarize(context.Background(), "  Lookups are   optional.\n")
	assert.Equal(t, "Lookups are optional.", got)
}

func TestSummarize_LeadingSentences(t *testing.T) {
	got := New(nil).Summarize(context.Background(), longAnswer)
	assert.Equal(t, "Lookup relationships are optional and do not cascade delete. "+
		"Master-detail relationships are required and the detail record inherits sharing and ownership from the master.", got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), maxSummaryLen)
}

func TestSummarize_Provider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary":"Lookup optional; master-detail required and cascades."}`)})
	got := New(nil, WithProvider(mock)).Summarize(context.Background(), longAnswer)
	assert.Equal(t, "Lookup optional; master-detail required and cascades.", got)
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, SummarySchema, mock.Calls[0].Schema)
}

func TestSummarize_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider()
	got := New(nil, WithProvider(mock), WithLogger(quietLogger())).Summarize(context.Background(), longAnswer)
	assert.True(t, strings.HasPrefix(got, "Lookup relationships are optional"))
}

func TestLeadingSentences_SingleLongSentence(t *testing.T) {
	text := strings.Repeat("governor ", 40) + "limits."
	got := leadingSentences(text, 50)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 50)
	assert.NotContains(t, got, "governor …", "cut on a word boundary")
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Use v2.0 of the API. Is it bulk-safe? Yes! Trailing words")
	assert.Equal(t, []string{"Use v2.0 of the API.", "Is it bulk-safe?", "Yes!", "Trailing words"}, got)
}
