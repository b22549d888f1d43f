package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/edusnap-dev/edusnap/internal/cli/commands"
	"github.com/edusnap-dev/edusnap/internal/logger"
)

var version = "dev" // Will be set during build

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "edusnap",
	Short: "EduSnap - Attendance management from the command line",
	Long: `EduSnap CLI - Role-based attendance management client.

Admins manage faculty accounts and view campus-wide reports; faculty
register students, upload classroom photos for attendance detection, and
review their own results. All data lives on the EduSnap backend; the CLI
keeps only your login session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Pick up EDUSNAP_* variables from .env files (fails silently)
		_ = godotenv.Load(".env")
		_ = godotenv.Load(".env.local")

		logger.InitCLI(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every API request")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("edusnap version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewFacultyCmd())
	rootCmd.AddCommand(commands.NewDashboardCmd())
	rootCmd.AddCommand(commands.NewStudentCmd())
	rootCmd.AddCommand(commands.NewAttendanceCmd())
	rootCmd.AddCommand(commands.NewReportsCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
