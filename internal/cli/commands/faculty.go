package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/edusnap-dev/edusnap/internal/cli/authz"
	"github.com/edusnap-dev/edusnap/internal/cli/client"
)

// NewFacultyCmd creates the faculty command group (admin only)
func NewFacultyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faculty",
		Short: "Manage faculty accounts (admin)",
	}

	cmd.AddCommand(newFacultyAddCmd())
	cmd.AddCommand(newFacultyDeleteCmd())
	cmd.AddCommand(newFacultyListCmd())

	return cmd
}

func newFacultyAddCmd() *cobra.Command {
	var req client.AddFacultyRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a faculty account",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runFacultyAdd(e, req)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Login username")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Department, "department", "", "Department")
	cmd.Flags().StringVar(&req.Year, "year", "", "Year")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")

	return cmd
}

func runFacultyAdd(e *env, req client.AddFacultyRequest) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteAdminFaculty); err != nil {
		return err
	}

	resp, err := e.api.AddFaculty(req)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "✓ %s\n", resp.Message)
	return nil
}

func newFacultyDeleteCmd() *cobra.Command {
	var password string
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete a faculty account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runFacultyDelete(e, args[0], password, yes)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "The faculty account's password (required by the backend)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func runFacultyDelete(e *env, email, password string, yes bool) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteAdminFaculty); err != nil {
		return err
	}

	if password == "" {
		return fmt.Errorf("the account password is required (use --password)")
	}

	if !yes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete faculty account %s", email),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Fprintln(e.out, "Cancelled.")
			return nil
		}
	}

	resp, err := e.api.DeleteFaculty(email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "✓ %s\n", resp.Message)
	return nil
}

func newFacultyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List faculty accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runFacultyList(e)
		},
	}
}

func runFacultyList(e *env) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteAdminFaculty); err != nil {
		return err
	}

	faculty, err := e.api.ListFaculty()
	if err != nil {
		return err
	}

	if len(faculty) == 0 {
		fmt.Fprintln(e.out, "No faculty accounts found.")
		fmt.Fprintln(e.out, "\nCreate one with: edusnap faculty add")
		return nil
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tDEPARTMENT\tYEAR")
	fmt.Fprintln(w, "────\t─────\t──────────\t────")
	for _, f := range faculty {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.Email, f.Department, f.Year)
	}
	w.Flush()

	return nil
}
