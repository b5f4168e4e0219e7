package cmd

import (
	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "prepdeck",
	Short: "Salesforce interview prep in the terminal",
	Long: "prepdeck drills Salesforce interview flashcards, grades free-text answers, " +
		"and tracks XP, levels, streaks and achievements.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/prepdeck/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides PREPDECK_DB)")
	pf.String("deck", "", "Path to a YAML flashcard deck (default: built-in deck)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("llm-provider", "", "LLM provider: anthropic, openai, gemini, openrouter or mock")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(awardCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, with persistent flags
// taking precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flag := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return config.Load(config.Options{
		Path: flag("config"),
		Overrides: map[string]string{
			config.KeyDB:          flag("db"),
			config.KeyDeck:        flag("deck"),
			config.KeyLogLevel:    flag("log-level"),
			config.KeyLLMProvider: flag("llm-provider"),
		},
	})
}
