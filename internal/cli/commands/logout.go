package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runLogout(e)
		},
	}
}

// runLogout clears the session unconditionally. The backend notification is
// best-effort; logout never fails.
func runLogout(e *env) error {
	e.sessions.Logout(e.api)
	fmt.Fprintln(e.out, "✓ Logged out.")
	return nil
}
