package stubserver

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusnap-dev/edusnap/internal/models"
)

func (s *Server) addStudent(c *gin.Context) {
	name := c.PostForm("name")
	rollNo := c.PostForm("roll_no")
	department := c.PostForm("department")
	semester := c.PostForm("semester")
	if name == "" || rollNo == "" || department == "" || semester == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name, roll_no, department and semester are required"})
		return
	}

	image, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "An enrollment image is required"})
		return
	}

	var existing models.Student
	if err := s.db.Where("roll_no = ?", rollNo).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Roll number already exists"})
		return
	}

	student := &models.Student{
		Name:       name,
		RollNo:     rollNo,
		Department: department,
		Semester:   semester,
		ImagePath:  image.Filename,
	}
	if err := s.db.Create(student).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create student")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create student"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    fmt.Sprintf("Added %s", name),
		"student_id": student.ID,
	})
}

// uploadAttendance stands in for the face-recognition pipeline: every
// registered student in the uploaded department is marked present and the
// uploaded filename becomes the "annotated" image reference.
func (s *Server) uploadAttendance(c *gin.Context) {
	user, _ := CurrentUser(c)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "A classroom image is required"})
		return
	}

	department := c.PostForm("department")
	year := c.PostForm("year")
	course := c.PostForm("course")
	subject := c.PostForm("subject")
	if department == "" || year == "" || course == "" || subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "department, year, course and subject are required"})
		return
	}

	lower := strings.ToLower(file.Filename)
	if !strings.HasSuffix(lower, ".png") && !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unsupported file type"})
		return
	}

	var students []models.Student
	if err := s.db.Where("department = ?", department).Find(&students).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load students")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	if len(students) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No registered students for department"})
		return
	}

	now := time.Now().UTC()
	present := make([]string, 0, len(students))
	for _, student := range students {
		record := &models.AttendanceRecord{
			StudentID:  student.ID,
			Subject:    subject,
			Course:     course,
			Department: department,
			Year:       year,
			Date:       now,
			Status:     "present",
			MarkedByID: user.ID,
		}
		if err := s.db.Create(record).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to create attendance record")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to mark attendance"})
			return
		}
		present = append(present, student.Name)
	}

	outputImage := fmt.Sprintf("%s_%s", now.Format("20060102_150405"), file.Filename)
	s.mu.Lock()
	s.latestImage = outputImage
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":          "Attendance marked successfully",
		"subject":          subject,
		"course":           course,
		"marked_by":        user.Name,
		"date":             now.Format("2006-01-02"),
		"present_count":    len(present),
		"present_students": present,
		"output_image":     outputImage,
		"csv_report":       "latest.csv",
		"pdf_report":       "latest.pdf",
	})
}

func (s *Server) attendanceResults(c *gin.Context) {
	user, _ := CurrentUser(c)

	var records []models.AttendanceRecord
	if err := s.db.Preload("Student").Where("marked_by_id = ?", user.ID).Find(&records).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load attendance records")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	students := make([]gin.H, 0, len(records))
	for _, r := range records {
		students = append(students, gin.H{
			"name":       r.Student.Name,
			"rollNumber": r.Student.RollNo,
		})
	}

	s.mu.Lock()
	image := s.latestImage
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"image":    image,
		"students": students,
	})
}

func (s *Server) latestImageRef(c *gin.Context) {
	s.mu.Lock()
	image := s.latestImage
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"image": image})
}

// minimalPDF is a tiny but structurally valid one-page PDF, enough for a
// stubbed report download.
const minimalPDF = "%PDF-1.4\n" +
	"1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
	"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj\n" +
	"trailer<</Root 1 0 R>>\n" +
	"%%EOF\n"

func (s *Server) downloadReport(c *gin.Context) {
	format := c.Param("format")

	var records []models.AttendanceRecord
	if err := s.db.Preload("Student").Order("date").Find(&records).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load attendance records")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("No %s files found", strings.ToUpper(format))})
		return
	}

	switch format {
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="latest.csv"`)
		c.Header("Content-Type", "text/csv")
		w := csv.NewWriter(c.Writer)
		_ = w.Write([]string{"name", "roll_no", "subject", "course", "date", "status"})
		for _, r := range records {
			_ = w.Write([]string{
				r.Student.Name,
				r.Student.RollNo,
				r.Subject,
				r.Course,
				r.Date.Format("2006-01-02"),
				r.Status,
			})
		}
		w.Flush()
	case "pdf":
		c.Header("Content-Disposition", `attachment; filename="latest.pdf"`)
		c.Data(http.StatusOK, "application/pdf", []byte(minimalPDF))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid file type"})
	}
}
