package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edusnap-dev/edusnap/internal/cli/authz"
	"github.com/edusnap-dev/edusnap/internal/cli/client"
)

// NewStudentCmd creates the student command group (faculty only)
func NewStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage students (faculty)",
	}

	cmd.AddCommand(newStudentAddCmd())

	return cmd
}

func newStudentAddCmd() *cobra.Command {
	var req client.AddStudentRequest
	var imagePath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a student with an enrollment photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runStudentAdd(e, req, imagePath)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Student name")
	cmd.Flags().StringVar(&req.RollNo, "roll", "", "Roll number")
	cmd.Flags().StringVar(&req.Department, "department", "", "Department")
	cmd.Flags().StringVar(&req.Semester, "semester", "", "Semester")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the enrollment photo")

	return cmd
}

func runStudentAdd(e *env, req client.AddStudentRequest, imagePath string) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteFacultyStudents); err != nil {
		return err
	}

	if imagePath == "" {
		return fmt.Errorf("an enrollment photo is required (use --image)")
	}

	image, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer image.Close()

	resp, err := e.api.AddStudent(req, image, filepath.Base(imagePath))
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "✓ %s\n", resp.Message)
	return nil
}
