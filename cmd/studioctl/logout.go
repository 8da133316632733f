package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage()
		if err != nil {
			return err
		}
		auth, client := newAuthStore(storage)

		if _, ok := auth.Current(); !ok {
			fmt.Println("Not currently logged in.")
			return nil
		}

		// Best effort; tokens also expire on their own.
		if err := client.Logout(cmd.Context()); err != nil {
			fmt.Printf("Warning: could not end session server-side: %v\n", err)
		}

		if err := auth.Logout(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}
