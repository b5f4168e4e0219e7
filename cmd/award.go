package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var awardCmd = &cobra.Command{
	Use:   "award <amount> [reason]",
	Short: "Grant XP manually",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}
		if amount <= 0 {
			return fmt.Errorf("amount must be positive, got %d", amount)
		}
		reason := "manual"
		if len(args) == 2 {
			reason = args[1]
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		before := d.engine.Snapshot()
		snap := d.engine.AwardXP(cmd.Context(), amount, reason)
		fmt.Printf("+%d XP → %d total, level %d\n", amount, snap.TotalXP, snap.Level)
		if snap.Level > before.Level {
			fmt.Printf("Level up! %d → %d\n", before.Level, snap.Level)
		}
		for _, id := range snap.Achievements[len(before.Achievements):] {
			fmt.Println("Unlocked:", achievementName(id))
		}
		return nil
	},
}
