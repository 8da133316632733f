// studioctl drives the infographic backend from the terminal: login,
// usage, theme, and staged generation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphgen/infographic-api/client/api"
	"github.com/graphgen/infographic-api/client/store"
)

var (
	Version = "dev"

	serverURL string
)

var rootCmd = &cobra.Command{
	Use:     "studioctl",
	Short:   "studioctl — generate AI infographics from text or PDF reports",
	Version: Version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "backend server URL")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(generateCmd)
}

func openStorage() (*store.FileStorage, error) {
	storage, err := store.NewFileStorage(store.DefaultStateDir())
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return storage, nil
}

// newAuthStore wires the auth store to an API client carrying the
// persisted token, if any.
func newAuthStore(storage store.Storage) (*store.AuthStore, *api.Client) {
	token, _ := store.PersistedToken(storage)
	client := api.NewClient(serverURL, token)
	return store.NewAuthStore(storage, client), client
}
