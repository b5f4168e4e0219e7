package gamestate

import "math"

// levelThresholds holds the cumulative XP required to reach levels 1..10.
var levelThresholds = []int{0, 50, 150, 300, 500, 800, 1200, 1700, 2300, 3000}

// XPPerLevelAfterTable is the flat XP step for levels past the table.
const XPPerLevelAfterTable = 800

// MaxTotalXP caps the XP total so level thresholds stay representable.
const MaxTotalXP = math.MaxInt / 2

// LevelProgress describes how far the learner is into the current level.
type LevelProgress struct {
	Level                int
	XPInCurrentLevel     int
	XPNeededForNextLevel int // size of the current level's span
	XPToNextLevel        int // remaining XP until the next level
	ProgressPercent      int // 0-99
}

// ThresholdForLevel returns the cumulative XP at which level begins.
// Every other level computation goes through this function.
func ThresholdForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level <= len(levelThresholds) {
		return levelThresholds[level-1]
	}
	last := levelThresholds[len(levelThresholds)-1]
	return last + (level-len(levelThresholds))*XPPerLevelAfterTable
}

// LevelForXP maps cumulative XP to a level, starting at 1.
func LevelForXP(xp int) int {
	xp = min(xp, MaxTotalXP)
	last := levelThresholds[len(levelThresholds)-1]
	if xp >= last {
		return len(levelThresholds) + (xp-last)/XPPerLevelAfterTable
	}
	level := 1
	for ThresholdForLevel(level+1) <= xp {
		level++
	}
	return level
}

// ProgressForXP computes the level progress for xp.
func ProgressForXP(xp int) LevelProgress {
	xp = min(max(xp, 0), MaxTotalXP)
	level := LevelForXP(xp)
	start := ThresholdForLevel(level)
	next := ThresholdForLevel(level + 1)
	span := next - start
	in := xp - start
	return LevelProgress{
		Level:                level,
		XPInCurrentLevel:     in,
		XPNeededForNextLevel: span,
		XPToNextLevel:        next - xp,
		ProgressPercent:      in * 100 / span,
	}
}
