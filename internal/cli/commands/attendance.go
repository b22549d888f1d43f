package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edusnap-dev/edusnap/internal/cli/authz"
	"github.com/edusnap-dev/edusnap/internal/cli/client"
)

// NewAttendanceCmd creates the attendance command group (faculty only)
func NewAttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Upload attendance images and review results (faculty)",
	}

	cmd.AddCommand(newAttendanceUploadCmd())
	cmd.AddCommand(newAttendanceResultsCmd())
	cmd.AddCommand(newAttendanceDownloadCmd())

	return cmd
}

func newAttendanceUploadCmd() *cobra.Command {
	var req client.UploadAttendanceRequest
	var imagePath string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Submit a classroom photo for attendance detection",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runAttendanceUpload(e, req, imagePath)
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the classroom photo")
	cmd.Flags().StringVar(&req.Department, "department", "", "Department")
	cmd.Flags().StringVar(&req.Year, "year", "", "Year")
	cmd.Flags().StringVar(&req.Course, "course", "", "Course")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "Subject")

	return cmd
}

func runAttendanceUpload(e *env, req client.UploadAttendanceRequest, imagePath string) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteFacultyUpload); err != nil {
		return err
	}

	if imagePath == "" {
		return fmt.Errorf("a classroom photo is required (use --image)")
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(e.out, "Uploading %s...\n", filepath.Base(imagePath))

	result, err := e.api.UploadAttendance(req, file, filepath.Base(imagePath))
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "✓ %s\n", result.Message)
	fmt.Fprintf(e.out, "  Subject: %s (%s)\n", result.Subject, result.Course)
	fmt.Fprintf(e.out, "  Date:    %s\n", result.Date)
	fmt.Fprintf(e.out, "  Present: %d\n", result.PresentCount)
	for _, s := range result.PresentStudents {
		fmt.Fprintf(e.out, "    - %s\n", s)
	}
	if result.OutputImage != "" {
		fmt.Fprintf(e.out, "  Annotated image: %s\n", result.OutputImage)
	}
	return nil
}

func newAttendanceResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show the latest detection results",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runAttendanceResults(e)
		},
	}
}

func runAttendanceResults(e *env) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteFacultyResults); err != nil {
		return err
	}

	results, err := e.api.Results()
	if err != nil {
		return err
	}

	if len(results.Students) == 0 {
		fmt.Fprintln(e.out, "No attendance results yet.")
		fmt.Fprintln(e.out, "\nUpload a classroom photo with: edusnap attendance upload")
		return nil
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tROLL NO")
	fmt.Fprintln(w, "────\t───────")
	for _, s := range results.Students {
		fmt.Fprintf(w, "%s\t%s\n", s.Name, s.RollNumber)
	}
	w.Flush()

	if results.Image != "" {
		fmt.Fprintf(e.out, "\nAnnotated image: %s\n", results.Image)
	}
	return nil
}

func newAttendanceDownloadCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <csv|pdf>",
		Short: "Download the latest attendance report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runAttendanceDownload(e, args[0], outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (defaults to attendance-latest.<format>)")

	return cmd
}

func runAttendanceDownload(e *env, format, outPath string) error {
	if err := guard(e.sessions.Snapshot(), authz.RouteFacultyResults); err != nil {
		return err
	}

	if outPath == "" {
		outPath = "attendance-latest." + format
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	n, err := e.api.DownloadReport(format, out)
	if err != nil {
		// Don't leave a partial file behind
		os.Remove(outPath)
		return err
	}

	fmt.Fprintf(e.out, "✓ Wrote %s (%d bytes)\n", outPath, n)
	return nil
}
