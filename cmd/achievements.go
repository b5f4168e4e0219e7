package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/gamestate"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and when they were unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		snap := d.engine.Snapshot()
		times, err := d.store.EventRepo().AchievementUnlocks(cmd.Context())
		if err != nil {
			d.logger.Warn("load unlock times", "error", err)
		}

		for _, a := range gamestate.Registry() {
			mark, when := "○", ""
			if snap.HasAchievement(a.ID) {
				mark = "●"
				if t, ok := times[a.ID]; ok {
					when = t.Local().Format("2006-01-02")
				}
			}
			fmt.Printf("%s %-18s %-7s %-10s %s\n", mark, a.Name, a.Tier, when, a.Description)
		}
		fmt.Printf("\n%d of %d unlocked\n", len(snap.Achievements), len(gamestate.Registry()))
		return nil
	},
}

func achievementName(id string) string {
	if a, ok := gamestate.LookupAchievement(id); ok {
		return a.Name
	}
	return id
}
