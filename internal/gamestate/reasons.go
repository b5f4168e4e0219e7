package gamestate

import "strings"

var reasonLabels = map[string]string{
	ReasonFlashcard:    "Flashcard answered",
	ReasonQuiz:         "Quiz round",
	ReasonPerfectQuiz:  "Perfect round bonus",
	ReasonToolFirstUse: "First use",
	ReasonHighScore:    "High score bonus",
}

// DescribeReason turns an award reason into a short label. Tool bonuses
// carry the tool ID after a colon; unknown reasons are returned as is.
func DescribeReason(reason string) string {
	base, detail, _ := strings.Cut(reason, ":")
	label, ok := reasonLabels[base]
	if !ok {
		return reason
	}
	if detail != "" {
		return label + ": " + detail
	}
	return label
}
