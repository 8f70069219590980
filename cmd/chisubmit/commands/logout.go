package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/credentials"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials",
	Long: `Remove the stored server URL, API key, and default course.

The API key itself stays valid on the server. To revoke it, rotate it
with 'chisubmit whoami' still logged in, or ask an administrator.`,
	RunE: runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}

	if _, err := store.Load(); err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	fmt.Println("Logged out.")
	return nil
}
