package gamestate

import "slices"

// State is the persisted form of the game state. Level is deliberately
// absent: it is always derived from TotalXP.
type State struct {
	TotalXP             int      `json:"totalXP"`
	Streak              int      `json:"streak"`
	LastActivityDate    string   `json:"lastActivityDate"` // YYYY-MM-DD, empty if never active
	Achievements        []string `json:"achievements"`
	ToolUsageLog        []string `json:"toolUsageLog"`
	FlashcardsCompleted int      `json:"flashcardsCompleted"`
	QuizzesCompleted    int      `json:"quizzesCompleted"`
}

// DefaultState returns the state of a brand-new learner.
func DefaultState() State {
	return State{
		Achievements: []string{},
		ToolUsageLog: []string{},
	}
}

// clone returns a deep copy so callers can never alias engine internals.
func (s State) clone() State {
	s.Achievements = slices.Clone(s.Achievements)
	s.ToolUsageLog = slices.Clone(s.ToolUsageLog)
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	if s.ToolUsageLog == nil {
		s.ToolUsageLog = []string{}
	}
	return s
}

// sanitize repairs values a hand-edited or older snapshot may carry.
func (s State) sanitize() State {
	s = s.clone()
	s.TotalXP = min(max(s.TotalXP, 0), MaxTotalXP)
	if s.Streak < 0 {
		s.Streak = 0
	}
	if s.FlashcardsCompleted < 0 {
		s.FlashcardsCompleted = 0
	}
	if s.QuizzesCompleted < 0 {
		s.QuizzesCompleted = 0
	}
	if _, ok := parseDay(s.LastActivityDate); !ok {
		s.LastActivityDate = ""
	}
	s.Achievements = dedupe(s.Achievements)
	s.ToolUsageLog = dedupe(s.ToolUsageLog)
	return s
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Snapshot is a read-only view of the engine handed to the UI and to
// subscribers.
type Snapshot struct {
	State
	Level    int
	RecentXP int
	Progress LevelProgress
}

// HasAchievement reports whether id is unlocked.
func (s Snapshot) HasAchievement(id string) bool {
	return slices.Contains(s.Achievements, id)
}

// ToolUsed reports whether the first-use bonus for toolID was already paid.
func (s Snapshot) ToolUsed(toolID string) bool {
	return slices.Contains(s.ToolUsageLog, toolID)
}
