// Package grading scores free-text flashcard answers against a reference
// answer using keyword overlap. It is deterministic and makes no network
// calls.
package grading

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Scoring weights.
const (
	PointsPerConcept  = 20
	LengthBonus       = 10
	LongAnswerLen     = 50  // characters; first length bonus above this
	DetailedAnswerLen = 100 // characters; second length bonus above this
	ShortAnswerLen    = 30  // characters; below this the learner is asked to elaborate
	MaxScore          = 100
)

// feedbackListLen is how many concepts a feedback line names.
const feedbackListLen = 3

// Result is the outcome of grading one answer.
type Result struct {
	Score           int
	MatchedConcepts []string
	MissingConcepts []string
	Feedback        []string
}

// Grade scores userAnswer against referenceAnswer. Callers are expected to
// reject empty input before grading.
func Grade(userAnswer, referenceAnswer string) Result {
	userConcepts := ExtractConcepts(userAnswer)
	refConcepts := ExtractConcepts(referenceAnswer)

	res := Result{
		MatchedConcepts: []string{},
		MissingConcepts: []string{},
	}

	score := 0
	for _, c := range refConcepts {
		if conceptMatches(c, userConcepts) {
			res.MatchedConcepts = append(res.MatchedConcepts, c)
			score += PointsPerConcept
		} else {
			res.MissingConcepts = append(res.MissingConcepts, c)
		}
	}

	length := utf8.RuneCountInString(userAnswer)
	if length > LongAnswerLen {
		score += LengthBonus
	}
	if length > DetailedAnswerLen {
		score += LengthBonus
	}

	res.Score = min(max(score, 0), MaxScore)
	res.Feedback = feedback(res, length)
	return res
}

func feedback(res Result, length int) []string {
	var lines []string

	switch {
	case res.Score >= 90:
		lines = append(lines, "Excellent! You covered the key points thoroughly.")
	case res.Score >= 70:
		lines = append(lines, "Good answer! You hit most of the important concepts.")
	case res.Score >= 50:
		lines = append(lines, "You're on the right track, but some key ideas are missing.")
	default:
		lines = append(lines, "Keep practicing! Review the reference answer and try again.")
	}

	if len(res.MatchedConcepts) > 0 {
		lines = append(lines, fmt.Sprintf("Concepts you covered: %s", joinFirst(res.MatchedConcepts)))
	}
	if res.Score < 80 && len(res.MissingConcepts) > 0 {
		lines = append(lines, fmt.Sprintf("Consider mentioning: %s", joinFirst(res.MissingConcepts)))
	}
	if length < ShortAnswerLen {
		lines = append(lines, "Try to elaborate more on your answer.")
	}
	return lines
}

func joinFirst(concepts []string) string {
	if len(concepts) > feedbackListLen {
		concepts = concepts[:feedbackListLen]
	}
	return strings.Join(concepts, ", ")
}
