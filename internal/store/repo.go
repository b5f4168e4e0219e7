package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SavedQuestion is one entry of the learner's notebook.
type SavedQuestion struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	Summarized string    `json:"summarized"`
	Timestamp  time.Time `json:"timestamp"`
}

// QuestionRepo manages saved questions.
type QuestionRepo interface {
	// Save stores q, assigning an ID and timestamp when they are unset.
	// It returns the stored record.
	Save(ctx context.Context, q SavedQuestion) (SavedQuestion, error)

	// Get returns the question with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (SavedQuestion, error)

	// List returns saved questions, newest first.
	List(ctx context.Context) ([]SavedQuestion, error)

	// Delete removes the question with the given ID or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// PrefsRepo manages user preferences.
type PrefsRepo interface {
	// Theme returns the stored theme, or ThemeDark when none is stored.
	Theme(ctx context.Context) (Theme, error)

	// SetTheme stores the theme. Invalid values are rejected.
	SetTheme(ctx context.Context, theme Theme) error
}

// XPEventData captures a single XP award.
type XPEventData struct {
	Amount  int
	Reason  string
	TotalXP int // total after the award
	Level   int // level after the award
}

// XPEventRecord is a stored XP award.
type XPEventRecord struct {
	XPEventData
	Sequence  int64
	Timestamp time.Time
}

// AchievementEventRecord is a stored achievement unlock.
type AchievementEventRecord struct {
	AchievementID string
	Sequence      int64
	Timestamp     time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendXPEvent records an XP award.
	AppendXPEvent(ctx context.Context, data XPEventData) error

	// QueryXPEvents returns XP awards, newest first.
	QueryXPEvents(ctx context.Context, opts QueryOpts) ([]XPEventRecord, error)

	// XPByReason sums awarded XP per reason.
	XPByReason(ctx context.Context) (map[string]int, error)

	// AppendAchievementEvent records an achievement unlock.
	AppendAchievementEvent(ctx context.Context, achievementID string) error

	// AchievementUnlocks returns the first unlock time per achievement.
	AchievementUnlocks(ctx context.Context) (map[string]time.Time, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns LLM request events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// Clear deletes every XP and achievement event. LLM usage is kept.
	Clear(ctx context.Context) error
}
