package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edusnap-dev/edusnap/internal/cli/authz"
	"github.com/edusnap-dev/edusnap/internal/cli/session"
)

// NewReportsCmd creates the reports command. The backend exposes separate
// admin and faculty report routes; the command dispatches on the session's
// role.
func NewReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "Show attendance reports for your role",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runReports(e)
		},
	}
}

func runReports(e *env) error {
	sess := e.sessions.Snapshot()

	switch sess.Role {
	case session.RoleAdmin:
		return runAdminReports(e)
	case session.RoleFaculty:
		return runFacultyReports(e)
	default:
		// Unauthenticated; let the guard produce the login redirect error
		return guard(sess, authz.RouteFacultyReports)
	}
}

func runAdminReports(e *env) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteAdminReports); err != nil {
		return err
	}

	rows, err := e.api.AdminReports()
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(e.out, "No reports yet.")
		return nil
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COURSE\tATTENDANCE\tDATE")
	fmt.Fprintln(w, "──────\t──────────\t────")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Course, r.Attendance, r.Date)
	}
	w.Flush()
	return nil
}

func runFacultyReports(e *env) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteFacultyReports); err != nil {
		return err
	}

	rows, err := e.api.FacultyReports()
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(e.out, "No reports yet.")
		fmt.Fprintln(e.out, "\nUpload a classroom photo with: edusnap attendance upload")
		return nil
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBJECT\tATTENDANCE\tDATE")
	fmt.Fprintln(w, "───────\t──────────\t────")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Subject, r.Attendance, r.Date)
	}
	w.Flush()
	return nil
}
