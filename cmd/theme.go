package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/store"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(store.ThemeDark), string(store.ThemeLight)},
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		prefs := d.store.PrefsRepo()
		if len(args) == 0 {
			t, err := prefs.Theme(ctx)
			if err != nil {
				return fmt.Errorf("read theme: %w", err)
			}
			fmt.Println(t)
			return nil
		}

		t, err := store.ParseTheme(args[0])
		if err != nil {
			return err
		}
		if err := prefs.SetTheme(ctx, t); err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
		fmt.Println("Theme set to", t)
		return nil
	},
}
