package flashcards

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.input.SetWidth(cw - 6)

	var body string
	switch s.phase {
	case phaseSummary:
		body = s.renderSummary(cw)
	case phaseFeedback:
		body = s.renderFeedback(cw)
	default:
		body = s.renderQuestion(cw)
	}
	if s.errMsg != "" {
		body += "\n\n" + theme.Incorrect.Render(s.errMsg)
	}
	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 3).Render(body)
}

func (s *Screen) renderQuestion(cw int) string {
	card, ok := s.round.Current()
	if !ok {
		return theme.Hint.Render("Wrapping up…")
	}
	pos, total := s.round.Position()

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Card %d of %d · %s", pos, total, card.Category)))
	b.WriteString("\n\n")
	b.WriteString(components.Panel("", theme.Body.Render(layout.Wrap(card.Question, cw-6)), cw))
	b.WriteString("\n\n")
	if s.showHint {
		hint := card.Hint
		if hint == "" {
			hint = "No hint for this card."
		}
		b.WriteString(theme.Hint.Render("Hint: "+hint) + "\n\n")
	}
	if s.phase == phaseGrading {
		b.WriteString(theme.Hint.Render("Grading…"))
	} else {
		b.WriteString(s.input.View())
	}
	return b.String()
}

func (s *Screen) renderFeedback(cw int) string {
	out := s.last
	res := out.Result

	scoreStyle := theme.Incorrect
	if out.Correct() {
		scoreStyle = theme.Correct
	}

	var b strings.Builder
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score %d / 100", res.Score)))
	b.WriteString("   ")
	b.WriteString(theme.Badge.Render(fmt.Sprintf("+%d XP", out.XP)))
	if out.Bonus > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf(" (incl. %d bonus)", out.Bonus)))
	}
	b.WriteString("\n\n")

	for _, line := range res.Feedback {
		b.WriteString(theme.Body.Render(layout.Wrap("• "+line, cw)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(components.Panel("Reference answer", theme.Body.Render(layout.Wrap(out.Card.Answer, cw-6)), cw))

	if s.saved[out.Card.ID] {
		b.WriteString("\n\n" + theme.Correct.Render("Saved to your notebook"))
	} else if s.pendingSave != "" {
		b.WriteString("\n\n" + theme.Hint.Render("Saving…"))
	}
	return b.String()
}

func (s *Screen) renderSummary(cw int) string {
	sum := s.summary
	var b strings.Builder
	b.WriteString(theme.Title.Render("Round complete") + "\n\n")

	rows := [][2]string{
		{"Answered", fmt.Sprint(sum.Answered)},
		{"Correct", fmt.Sprint(sum.Correct)},
		{"Skipped", fmt.Sprint(sum.Skipped)},
		{"XP earned", fmt.Sprint(sum.XP)},
		{"Level", fmt.Sprint(sum.Snapshot.Level)},
	}
	for _, r := range rows {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%-10s", r[0])) + "  " + theme.Badge.Render(r[1]) + "\n")
	}
	if sum.Answered > 0 && sum.Correct == sum.Answered {
		b.WriteString("\n" + theme.Correct.Render("Perfect round!"))
	}
	return components.Panel("", b.String(), cw)
}
