package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage()
		if err != nil {
			return err
		}
		auth, _ := newAuthStore(storage)

		session, ok := auth.Current()
		if !ok {
			fmt.Println("Not logged in. Run 'studioctl login' to authenticate.")
			return nil
		}
		fmt.Printf("Logged in as: %s\n", session.Username)
		fmt.Printf("Role: %s\n", session.Role)
		fmt.Printf("Server: %s\n", serverURL)
		return nil
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show generation usage for the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage()
		if err != nil {
			return err
		}
		auth, client := newAuthStore(storage)

		session, ok := auth.Current()
		if !ok {
			return fmt.Errorf("not logged in")
		}

		resp, err := client.Usage(cmd.Context(), session.Username)
		if err != nil {
			return err
		}
		if resp.Limit < 0 {
			fmt.Printf("%s: %d generations used (unlimited)\n", session.Username, resp.UsageCount)
			return nil
		}
		fmt.Printf("%s: %d of %d generations used, %d remaining\n",
			session.Username, resp.UsageCount, resp.Limit, resp.Remaining)
		return nil
	},
}
