package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/edusnap-dev/edusnap/internal/cli/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the EduSnap backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runLogin(e, email, password, role)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set EDUSNAP_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set EDUSNAP_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&role, "role", "", "Role to sign in as: admin or faculty (will prompt if not provided)")

	return cmd
}

func runLogin(e *env, email, password, role string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("EDUSNAP_EMAIL")
	}
	if password == "" {
		password = os.Getenv("EDUSNAP_PASSWORD")
	}
	if role == "" {
		role = os.Getenv("EDUSNAP_ROLE")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or EDUSNAP_EMAIL env var)")
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println() // New line after password input
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or EDUSNAP_PASSWORD env var)")
		}
	}

	// Role selection mirrors the login form's dropdown. The backend has the
	// last word: a role in the login response overrides the selection.
	if role == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			selected, err := promptRole()
			if err != nil {
				return err
			}
			role = selected
		} else {
			role = string(session.RoleFaculty)
		}
	}

	requested := session.Role(role)
	if !requested.Valid() {
		return fmt.Errorf("unknown role %q (use admin or faculty)", role)
	}

	fmt.Fprintf(e.out, "Logging in to %s...\n", e.cfg.ServerURL)

	if err := e.sessions.Login(e.api, email, password, requested); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := e.sessions.Snapshot()
	fmt.Fprintln(e.out, "✓ Login successful!")
	if name, email := userDisplay(sess.User); name != "" || email != "" {
		fmt.Fprintf(e.out, "  User: %s (%s)\n", name, email)
	}
	fmt.Fprintf(e.out, "  Role: %s\n", sess.Role)

	return nil
}

func promptRole() (string, error) {
	prompt := promptui.Select{
		Label: "Sign in as",
		Items: []string{string(session.RoleFaculty), string(session.RoleAdmin)},
	}
	_, role, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("role selection cancelled: %w", err)
	}
	return role, nil
}

// userDisplay peeks at the opaque user payload for display purposes only.
func userDisplay(user json.RawMessage) (name, email string) {
	if len(user) == 0 {
		return "", ""
	}
	var probe struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(user, &probe); err != nil {
		return "", ""
	}
	return probe.Name, probe.Email
}
