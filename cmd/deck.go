package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/quiz"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Describe the active flashcard deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		deck, err := quiz.Load(cfg.DeckPath)
		if err != nil {
			return fmt.Errorf("load deck: %w", err)
		}
		printDeck(deck)
		return nil
	},
}

var deckCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a deck file and check it works with this version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deck, err := quiz.LoadFile(args[0])
		if err != nil {
			return err
		}
		if err := deck.CheckCompatible(version); err != nil {
			return err
		}
		printDeck(deck)
		fmt.Println("\nOK")
		return nil
	},
}

func init() {
	deckCmd.AddCommand(deckCheckCmd)
}

func printDeck(deck *quiz.Deck) {
	fmt.Printf("Deck:     %s\n", deck.Name)
	if deck.Version != "" {
		fmt.Printf("Version:  %s\n", deck.Version)
	}
	if deck.Requires != "" {
		fmt.Printf("Requires: prepdeck %s\n", deck.Requires)
	}
	fmt.Printf("Cards:    %d\n", len(deck.Cards))
	for _, c := range deck.Categories() {
		fmt.Printf("  %-16s %d\n", c, len(deck.Filter(c)))
	}
}
