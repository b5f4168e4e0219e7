package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/gamestate"
	"github.com/prepdeck/prepdeck/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent XP awards",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := d.store.EventRepo().QueryXPEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query xp events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No XP awarded yet.")
			return nil
		}

		fmt.Printf("%-16s  %6s  %-28s  %7s  %5s\n", "Time", "XP", "Reason", "Total", "Level")
		fmt.Println(strings.Repeat("─", 72))
		for _, e := range events {
			fmt.Printf("%-16s  %+6d  %-28s  %7d  %5d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Amount,
				truncate(gamestate.DescribeReason(e.Reason), 28),
				e.TotalXP,
				e.Level,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of awards to show (0 = all)")
	historyCmd.Flags().Duration("since", 0, "Only show awards newer than this, e.g. 168h")
}
