package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/spacedrep"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level, streak and progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		snap := d.engine.Snapshot()
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		printStats(snap)

		// The deck is optional here; stats still print without it.
		deck, err := loadDeck(d)
		if err != nil {
			d.logger.Warn("stats: deck unavailable", "error", err)
			return nil
		}
		printReviews(d.reviews.Counts(deckCardIDs(deck)))
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the full snapshot as JSON")
}

func printStats(snap gamestate.Snapshot) {
	p := snap.Progress
	fmt.Printf("Level:        %d (%d%%, %d/%d XP to next)\n",
		snap.Level, p.ProgressPercent, p.XPInCurrentLevel, p.XPNeededForNextLevel)
	fmt.Printf("Total XP:     %d\n", snap.TotalXP)
	fmt.Printf("Streak:       %d day(s)", snap.Streak)
	if snap.LastActivityDate != "" {
		fmt.Printf(", last active %s", snap.LastActivityDate)
	}
	fmt.Println()
	fmt.Printf("Flashcards:   %d\n", snap.FlashcardsCompleted)
	fmt.Printf("Quizzes:      %d\n", snap.QuizzesCompleted)
	fmt.Printf("Achievements: %d/%d\n", len(snap.Achievements), len(gamestate.Registry()))
	tools := "none"
	if len(snap.ToolUsageLog) > 0 {
		tools = strings.Join(snap.ToolUsageLog, ", ")
	}
	fmt.Printf("Tools used:   %s\n", tools)
}

func printReviews(c spacedrep.Counts) {
	fmt.Printf("Reviews:      %d due (%d overdue), %d scheduled, %d graduated, %d new\n",
		c.Due, c.Overdue, c.Scheduled, c.Graduated, c.New)
}
