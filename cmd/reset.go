package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset XP, streak, achievements, XP history and review schedule",
	Long: "Reset the learner's progress to a fresh start. Saved questions, " +
		"preferences and LLM usage records are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("this erases all progress; re-run with --yes to confirm")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		d.engine.Reset(ctx)
		d.reviews.Reset(ctx)
		if err := d.store.EventRepo().Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		d.logger.Info("progress reset")
		fmt.Println("Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
