package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/quiz"
	"github.com/prepdeck/prepdeck/internal/spacedrep"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List flashcards by review schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		deck, err := loadDeck(d)
		if err != nil {
			return err
		}

		ids := deckCardIDs(deck)
		if !all {
			ids = d.reviews.Due(ids)
			if len(ids) == 0 {
				fmt.Println("Nothing due for review.")
				return nil
			}
		} else {
			ids = d.reviews.Order(ids)
		}

		byID := make(map[string]quiz.Card, len(deck.Cards))
		for _, c := range deck.Cards {
			byID[c.ID] = c
		}

		now := time.Now()
		fmt.Printf("%-20s  %-12s  %-10s  %5s  %s\n", "Card", "Category", "Status", "Stage", "Next")
		fmt.Println(strings.Repeat("─", 72))
		for _, id := range ids {
			c := byID[id]
			status, stage, next := "new", "-", "-"
			if rs, ok := d.reviews.State(id); ok {
				status = string(rs.Status(now))
				stage = fmt.Sprint(rs.Stage)
				next = describeNext(rs, now)
			}
			fmt.Printf("%-20s  %-12s  %-10s  %5s  %s\n",
				truncate(id, 20), truncate(c.Category, 12), status, stage, next)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("all", false, "Include cards that are not due")
}

func describeNext(rs spacedrep.ReviewState, now time.Time) string {
	if days := rs.DaysUntilReview(now); days > 0 {
		return fmt.Sprintf("in %dd", days)
	}
	if overdue := int(rs.OverdueDays(now)); overdue > 0 {
		return fmt.Sprintf("%dd overdue", overdue)
	}
	return "now"
}

func deckCardIDs(deck *quiz.Deck) []string {
	ids := make([]string, len(deck.Cards))
	for i, c := range deck.Cards {
		ids[i] = c.ID
	}
	return ids
}
