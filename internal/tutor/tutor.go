// Package tutor answers free-form interview questions. Replies come from a
// hosted model when one is configured and from keyword rules otherwise.
package tutor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/llm"
)

// ToolID identifies the tutor in the tool usage log.
const ToolID = "tutor"

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// Reply sources.
const (
	SourceRules = "rules"
	SourceLLM   = "llm"
)

// maxSummaryLen bounds the fallback summary in runes.
const maxSummaryLen = 200

// Engine is the part of the game state engine the tutor credits.
type Engine interface {
	ToolUsage(ctx context.Context, toolID string) gamestate.Snapshot
}

// Reply is one tutor answer.
type Reply struct {
	Question    string
	Topic       string
	Explanation string
	FollowUps   []string
	Source      string
	Matched     bool // false for the generic fallback
}

// Tutor answers questions.
type Tutor struct {
	engine   Engine
	provider llm.Provider
	rules    []Rule
	logger   *slog.Logger
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithProvider enables model-backed replies. A nil provider keeps rules only.
func WithProvider(p llm.Provider) Option {
	return func(t *Tutor) { t.provider = p }
}

// WithRules replaces the built-in rule set.
func WithRules(rules []Rule) Option {
	return func(t *Tutor) { t.rules = rules }
}

// WithLogger sets the logger for provider fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tutor) { t.logger = l }
}

// New returns a Tutor that credits usage to engine. engine may be nil.
func New(engine Engine, opts ...Option) *Tutor {
	t := &Tutor{
		engine: engine,
		rules:  DefaultRules,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HasProvider reports whether replies may come from a model.
func (t *Tutor) HasProvider() bool {
	return t.provider != nil
}

// Ask answers question. Provider failures fall back to the rules and are
// only logged.
func (t *Tutor) Ask(ctx context.Context, question string) (Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, ErrEmptyQuestion
	}

	reply, err := t.askProvider(ctx, question)
	if err != nil {
		t.logger.Warn("tutor provider failed, using rules", "error", err)
	}
	if reply == nil {
		r := t.askRules(question)
		reply = &r
	}

	if t.engine != nil {
		t.engine.ToolUsage(ctx, ToolID)
	}
	return *reply, nil
}

type replyOutput struct {
	Topic       string   `json:"topic"`
	Explanation string   `json:"explanation"`
	FollowUps   []string `json:"follow_ups"`
}

func (t *Tutor) askProvider(ctx context.Context, question string) (*Reply, error) {
	if t.provider == nil {
		return nil, nil
	}
	req := llm.User(replySystemPrompt, question)
	req.Schema = ReplySchema
	req.MaxTokens = 700
	req.Temperature = 0.3

	resp, err := t.provider.Generate(llm.WithPurpose(ctx, "tutor-reply"), req)
	if err != nil {
		return nil, err
	}
	var out replyOutput
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Explanation) == "" {
		return nil, errors.New("empty explanation")
	}
	return &Reply{
		Question:    question,
		Topic:       out.Topic,
		Explanation: out.Explanation,
		FollowUps:   out.FollowUps,
		Source:      SourceLLM,
		Matched:     true,
	}, nil
}

func (t *Tutor) askRules(question string) Reply {
	r, ok := bestRule(t.rules, question)
	if !ok {
		return Reply{
			Question:    question,
			Topic:       "General",
			Explanation: fallbackExplanation,
			FollowUps:   fallbackFollowUps,
			Source:      SourceRules,
		}
	}
	return Reply{
		Question:    question,
		Topic:       r.Topic,
		Explanation: r.Explanation,
		FollowUps:   r.FollowUps,
		Source:      SourceRules,
		Matched:     true,
	}
}

// Summarize shortens answer for the saved-questions notebook. Without a
// provider, or when it fails, the leading sentences that fit are kept.
func (t *Tutor) Summarize(ctx context.Context, answer string) string {
	answer = strings.Join(strings.Fields(answer), " ")
	if utf8.RuneCountInString(answer) <= maxSummaryLen {
		return answer
	}

	if t.provider != nil {
		req := llm.User(summarySystemPrompt, answer)
		req.Schema = SummarySchema
		req.MaxTokens = 200

		resp, err := t.provider.Generate(llm.WithPurpose(ctx, "summarize"), req)
		if err == nil {
			var out struct {
				Summary string `json:"summary"`
			}
			if err = resp.Decode(&out); err == nil && strings.TrimSpace(out.Summary) != "" {
				return strings.TrimSpace(out.Summary)
			}
		}
		if err != nil {
			t.logger.Warn("summarize via provider failed", "error", err)
		}
	}
	return leadingSentences(answer, maxSummaryLen)
}

// leadingSentences returns whole sentences from the start of text up to
// limit runes. When even the first sentence is too long it is cut at a
// word boundary and suffixed with an ellipsis.
func leadingSentences(text string, limit int) string {
	var out strings.Builder
	for _, s := range splitSentences(text) {
		next := s
		if out.Len() > 0 {
			next = " " + s
		}
		if utf8.RuneCountInString(out.String()+next) > limit {
			break
		}
		out.WriteString(next)
	}
	if out.Len() > 0 {
		return out.String()
	}

	runes := []rune(text)
	cut := string(runes[:limit-1])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func splitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		end := i + 1
		if end < len(text) && text[end] != ' ' {
			continue
		}
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
