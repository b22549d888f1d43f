package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edusnap-dev/edusnap/internal/cli/authz"
)

// NewDashboardCmd creates the dashboard command (admin only)
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the admin overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runDashboard(e)
		},
	}
}

func runDashboard(e *env) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteAdminDashboard); err != nil {
		return err
	}

	stats, err := e.api.Dashboard()
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "Students:           %d\n", stats.TotalStudents)
	fmt.Fprintf(e.out, "Faculty:            %d\n", stats.TotalFaculty)
	fmt.Fprintf(e.out, "Attendance records: %d\n", stats.TotalAttendanceRecords)
	return nil
}
