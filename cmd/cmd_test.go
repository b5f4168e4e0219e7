package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/spacedrep"
	"github.com/prepdeck/prepdeck/internal/store"
)

func TestAggregateByModel(t *testing.T) {
	events := []store.LLMRequestEventRecord{
		{LLMRequestEventData: store.LLMRequestEventData{Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 10, Success: true}},
		{LLMRequestEventData: store.LLMRequestEventData{Model: "claude-haiku-4-5", InputTokens: 50, OutputTokens: 5, Success: true}},
		{LLMRequestEventData: store.LLMRequestEventData{Model: "gpt-4o-mini", InputTokens: 20, OutputTokens: 0, Success: false}},
	}

	got := aggregateByModel(events)

	require.Len(t, got, 2)
	assert.Equal(t, modelUsage{Model: "gpt-4o-mini", Calls: 2, Failures: 1, InputTokens: 120, OutputTokens: 10}, got[0])
	assert.Equal(t, "claude-haiku-4-5", got[1].Model)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}

func TestDescribeNext(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "in 3d", describeNext(spacedrep.ReviewState{NextReviewDate: now.Add(60 * time.Hour)}, now))
	assert.Equal(t, "now", describeNext(spacedrep.ReviewState{NextReviewDate: now.Add(-time.Hour)}, now))
	assert.Equal(t, "2d overdue", describeNext(spacedrep.ReviewState{NextReviewDate: now.Add(-50 * time.Hour)}, now))
}

// execute runs the root command with an isolated config and data dir.
func execute(t *testing.T, dbPath string, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("PREPDECK_LLM_PROVIDER", "")

	rootCmd.SetArgs(append([]string{"--db", dbPath}, args...))
	return rootCmd.ExecuteContext(context.Background())
}

func loadState(t *testing.T, dbPath string) gamestate.Snapshot {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	return gamestate.NewEngine(context.Background(), st.StateRepo()).Snapshot()
}

func TestAwardAndReset(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prepdeck.db")

	require.NoError(t, execute(t, dbPath, "award", "60", "bonus"))
	snap := loadState(t, dbPath)
	assert.Equal(t, 60, snap.TotalXP)
	assert.Equal(t, 2, snap.Level)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	events, err := st.EventRepo().QueryXPEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.Len(t, events, 1)
	assert.Equal(t, "bonus", events[0].Reason)

	assert.Error(t, execute(t, dbPath, "reset"), "reset without --yes must refuse")
	require.NoError(t, execute(t, dbPath, "reset", "--yes"))
	assert.Equal(t, 0, loadState(t, dbPath).TotalXP)
}

func TestAwardRejectsBadAmount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prepdeck.db")
	assert.Error(t, execute(t, dbPath, "award", "zero"))
	assert.Error(t, execute(t, dbPath, "award", "-5"))
}
