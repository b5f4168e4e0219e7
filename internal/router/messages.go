package router

import (
	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/screen"
)

// Section names a navigable area of the app.
type Section string

const (
	SectionHome         Section = "home"
	SectionFlashcards   Section = "flashcards"
	SectionTutor        Section = "tutor"
	SectionSaved        Section = "saved"
	SectionAchievements Section = "achievements"
	SectionHistory      Section = "history"
)

// TabReview opens a flashcard round limited to cards due for review.
const TabReview = "review"

// NavigateMsg asks the router to open a section. Tab and Category are
// passed to the section's factory; which of them apply is up to the
// section.
type NavigateMsg struct {
	Section  Section
	Tab      string
	Category string
}

// Factory builds the screen for a navigation request.
type Factory func(NavigateMsg) screen.Screen

// Sectioned is implemented by screens that belong to a section.
type Sectioned interface {
	Section() Section
}

// QuestionSavedMsg announces a new saved question. Every screen on the
// stack receives it.
type QuestionSavedMsg struct {
	ID string
}

// StateChangedMsg carries the game state after a change. Every screen on
// the stack receives it.
type StateChangedMsg struct {
	Snapshot gamestate.Snapshot
}
