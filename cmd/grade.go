package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/grading"
	"github.com/prepdeck/prepdeck/internal/quiz"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <card-id> <answer...>",
	Short: "Grade an answer against a flashcard",
	Long: "Grade a free-text answer against a deck card, or against --reference text.\n" +
		"With --record the answer is credited like one answered in the app.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference, _ := cmd.Flags().GetString("reference")
		record, _ := cmd.Flags().GetBool("record")

		if reference != "" {
			if record {
				return errors.New("--record needs a deck card, not --reference")
			}
			answer := strings.Join(args, " ")
			if strings.TrimSpace(answer) == "" {
				return quiz.ErrEmptyAnswer
			}
			printResult(grading.Grade(answer, reference))
			return nil
		}

		if len(args) < 2 {
			return errors.New("usage: prepdeck grade <card-id> <answer...>")
		}
		answer := strings.Join(args[1:], " ")

		if !record {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			deck, err := quiz.Load(cfg.DeckPath)
			if err != nil {
				return fmt.Errorf("load deck: %w", err)
			}
			card, ok := deck.Card(args[0])
			if !ok {
				return fmt.Errorf("no card %q in deck %q", args[0], deck.Name)
			}
			if strings.TrimSpace(answer) == "" {
				return quiz.ErrEmptyAnswer
			}
			printResult(grading.Grade(answer, card.Answer))
			return nil
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		deck, err := loadDeck(d)
		if err != nil {
			return err
		}
		card, ok := deck.Card(args[0])
		if !ok {
			return fmt.Errorf("no card %q in deck %q", args[0], deck.Name)
		}
		out, err := quiz.NewQuizzer(d.engine, quiz.WithReviews(d.reviews)).Submit(cmd.Context(), card, answer)
		if err != nil {
			return err
		}
		printResult(out.Result)
		fmt.Printf("\n+%d XP (bonus %d) → %d total, level %d\n",
			out.XP, out.Bonus, out.Snapshot.TotalXP, out.Snapshot.Level)
		return nil
	},
}

func init() {
	gradeCmd.Flags().String("reference", "", "Grade against this reference text instead of a card")
	gradeCmd.Flags().Bool("record", false, "Credit XP for the answer")
}

func printResult(res grading.Result) {
	fmt.Printf("Score: %d/%d\n", res.Score, grading.MaxScore)
	if len(res.MatchedConcepts) > 0 {
		fmt.Printf("Matched: %s\n", strings.Join(res.MatchedConcepts, ", "))
	}
	if len(res.MissingConcepts) > 0 {
		fmt.Printf("Missing: %s\n", strings.Join(res.MissingConcepts, ", "))
	}
	for _, f := range res.Feedback {
		fmt.Println("  •", f)
	}
}
