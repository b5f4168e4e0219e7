package gamestate

import "time"

const dayLayout = "2006-01-02"

// StreakTransition names the outcome of comparing today to the last
// activity day.
type StreakTransition string

const (
	StreakSameDay   StreakTransition = "same-day"
	StreakContinued StreakTransition = "consecutive-day"
	StreakRestarted StreakTransition = "gap-day"
	StreakFirstEver StreakTransition = "first"
)

// formatDay renders t as a calendar date in t's own location.
func formatDay(t time.Time) string {
	return t.Format(dayLayout)
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// daysBetween counts calendar days from last to today. Both are compared
// as dates, so DST shifts and time of day do not matter.
func daysBetween(last string, today time.Time) (int, bool) {
	if last == "" {
		return 0, false
	}
	lastDay, ok := parseDay(last)
	if !ok {
		return 0, false
	}
	y, m, d := today.Date()
	todayDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(todayDay.Sub(lastDay).Hours() / 24), true
}

// nextStreak applies one qualifying activity on day today to the current
// streak.
func nextStreak(streak int, last string, today time.Time) (int, StreakTransition) {
	diff, ok := daysBetween(last, today)
	switch {
	case !ok:
		return 1, StreakFirstEver
	case diff == 0:
		if streak < 1 {
			return 1, StreakSameDay
		}
		return streak, StreakSameDay
	case diff == 1:
		return streak + 1, StreakContinued
	default:
		// Negative diffs mean the clock moved backwards; restart rather
		// than credit a day that never happened.
		return 1, StreakRestarted
	}
}
