package gamestate

// Tier represents an achievement's difficulty level.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Achievement describes a single unlockable goal.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Tier        Tier
	// Condition reports whether the achievement is earned for a snapshot.
	Condition func(Snapshot) bool
}

// Achievement identifiers.
const (
	AchFirstFlashcard = "first_flashcard"
	AchFlashcards25   = "flashcards_25"
	AchFlashcards100  = "flashcards_100"
	AchStreak3        = "streak_3"
	AchStreak7        = "streak_7"
	AchStreak30       = "streak_30"
	AchLevel5         = "level_5"
	AchLevel10        = "level_10"
	AchXP1000         = "xp_1000"
	AchExplorer       = "explorer"
	AchFirstQuiz      = "first_quiz"
	AchQuizzes10      = "quizzes_10"
)

var registry = []Achievement{
	{
		ID: AchFirstFlashcard, Name: "First Card",
		Description: "Answer your first flashcard",
		Tier:        TierBronze,
		Condition:   func(s Snapshot) bool { return s.FlashcardsCompleted >= 1 },
	},
	{
		ID: AchFlashcards25, Name: "Card Shark",
		Description: "Answer 25 flashcards",
		Tier:        TierSilver,
		Condition:   func(s Snapshot) bool { return s.FlashcardsCompleted >= 25 },
	},
	{
		ID: AchFlashcards100, Name: "Recall Machine",
		Description: "Answer 100 flashcards",
		Tier:        TierGold,
		Condition:   func(s Snapshot) bool { return s.FlashcardsCompleted >= 100 },
	},
	{
		ID: AchStreak3, Name: "Warming Up",
		Description: "Study 3 days in a row",
		Tier:        TierBronze,
		Condition:   func(s Snapshot) bool { return s.Streak >= 3 },
	},
	{
		ID: AchStreak7, Name: "Week Warrior",
		Description: "Study 7 days in a row",
		Tier:        TierSilver,
		Condition:   func(s Snapshot) bool { return s.Streak >= 7 },
	},
	{
		ID: AchStreak30, Name: "Unstoppable",
		Description: "Study 30 days in a row",
		Tier:        TierGold,
		Condition:   func(s Snapshot) bool { return s.Streak >= 30 },
	},
	{
		ID: AchLevel5, Name: "Rising Candidate",
		Description: "Reach level 5",
		Tier:        TierSilver,
		Condition:   func(s Snapshot) bool { return s.Level >= 5 },
	},
	{
		ID: AchLevel10, Name: "Offer Ready",
		Description: "Reach level 10",
		Tier:        TierGold,
		Condition:   func(s Snapshot) bool { return s.Level >= 10 },
	},
	{
		ID: AchXP1000, Name: "Thousand Club",
		Description: "Earn 1,000 total XP",
		Tier:        TierSilver,
		Condition:   func(s Snapshot) bool { return s.TotalXP >= 1000 },
	},
	{
		ID: AchExplorer, Name: "Explorer",
		Description: "Try 3 different tools",
		Tier:        TierBronze,
		Condition:   func(s Snapshot) bool { return len(s.ToolUsageLog) >= 3 },
	},
	{
		ID: AchFirstQuiz, Name: "Round One",
		Description: "Finish a full quiz round",
		Tier:        TierBronze,
		Condition:   func(s Snapshot) bool { return s.QuizzesCompleted >= 1 },
	},
	{
		ID: AchQuizzes10, Name: "Drill Sergeant",
		Description: "Finish 10 quiz rounds",
		Tier:        TierSilver,
		Condition:   func(s Snapshot) bool { return s.QuizzesCompleted >= 10 },
	},
}

// Registry returns a copy of every known achievement in display order.
func Registry() []Achievement {
	out := make([]Achievement, len(registry))
	copy(out, registry)
	return out
}

// LookupAchievement returns the achievement with id, if known.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range registry {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// earnedAchievements returns the ids whose condition holds for snap but
// which are not unlocked yet.
func earnedAchievements(snap Snapshot) []string {
	var ids []string
	for _, a := range registry {
		if snap.HasAchievement(a.ID) {
			continue
		}
		if a.Condition(snap) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
