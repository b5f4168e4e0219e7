// Package spacedrep schedules flashcard reviews on an expanding interval.
package spacedrep

// BaseIntervals defines the expanding interval schedule in days.
// Stage 0 is the first review after a card is answered correctly.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// MaxStage is the highest stage index in BaseIntervals.
const MaxStage = 5

// GraduationStage is the number of consecutive correct reviews after
// which a card graduates.
const GraduationStage = 6

// GraduatedIntervalDays is the review interval for graduated cards.
const GraduatedIntervalDays = 90
