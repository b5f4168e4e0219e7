package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/tutor"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage the saved-questions notebook",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved questions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		qs, err := d.store.QuestionRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}
		shown := 0
		for _, q := range qs {
			if category != "" && !strings.EqualFold(q.Category, category) {
				continue
			}
			fmt.Printf("%-36s  %s  %-16s  %s\n",
				q.ID, q.Timestamp.Local().Format("2006-01-02"), truncate(q.Category, 16), q.Question)
			shown++
		}
		if shown == 0 {
			fmt.Println("No saved questions.")
		}
		return nil
	},
}

var savedShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved question in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		q, err := d.store.QuestionRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved question %q", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("Question:  %s\n", q.Question)
		fmt.Printf("Category:  %s\n", q.Category)
		fmt.Printf("Saved:     %s\n", q.Timestamp.Local().Format("2006-01-02 15:04"))
		if q.Summarized != "" {
			fmt.Printf("Summary:   %s\n", q.Summarized)
		}
		fmt.Println()
		fmt.Println(q.Answer)
		return nil
	},
}

var savedAddCmd = &cobra.Command{
	Use:   "add <question> <answer>",
	Short: "Save a question with its answer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		if strings.TrimSpace(args[0]) == "" || strings.TrimSpace(args[1]) == "" {
			return errors.New("question and answer must not be empty")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		t := tutor.New(d.engine)
		q, err := d.store.QuestionRepo().Save(ctx, store.SavedQuestion{
			Question:   args[0],
			Answer:     args[1],
			Category:   category,
			Summarized: t.Summarize(ctx, args[1]),
		})
		if err != nil {
			return fmt.Errorf("save question: %w", err)
		}
		fmt.Println("Saved", q.ID)
		return nil
	},
}

var savedRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a saved question",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		err = d.store.QuestionRepo().Delete(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved question %q", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	savedListCmd.Flags().String("category", "", "Only list questions in this category")
	savedAddCmd.Flags().String("category", "", "Category to file the question under")

	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedShowCmd)
	savedCmd.AddCommand(savedAddCmd)
	savedCmd.AddCommand(savedRmCmd)
}
