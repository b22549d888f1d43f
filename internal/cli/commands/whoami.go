package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runWhoami(e)
		},
	}
}

// runWhoami prints the session snapshot. It performs no network I/O.
func runWhoami(e *env) error {
	sess := e.sessions.Snapshot()

	if !sess.IsAuthenticated {
		fmt.Fprintln(e.out, "Not logged in.")
		return nil
	}

	name, email := userDisplay(sess.User)
	if name != "" || email != "" {
		fmt.Fprintf(e.out, "User:   %s (%s)\n", name, email)
	}
	fmt.Fprintf(e.out, "Role:   %s\n", sess.Role)
	fmt.Fprintf(e.out, "Server: %s\n", e.cfg.ServerURL)
	return nil
}
