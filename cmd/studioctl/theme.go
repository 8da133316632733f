package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphgen/infographic-api/client/store"
)

var themeCmd = &cobra.Command{
	Use:       "theme [toggle]",
	Short:     "Show or toggle the display theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage()
		if err != nil {
			return err
		}
		theme := store.NewThemeStore(storage, nil)

		if len(args) == 1 && args[0] == "toggle" {
			if err := theme.Toggle(); err != nil {
				return fmt.Errorf("saving theme: %w", err)
			}
		}

		if theme.Dark() {
			fmt.Println("Theme: dark")
		} else {
			fmt.Println("Theme: light")
		}
		return nil
	},
}
