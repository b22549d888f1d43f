package stubserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edusnap-dev/edusnap/internal/auth"
	"github.com/edusnap-dev/edusnap/internal/models"
)

// AddFacultyRequest represents a request to create a faculty account
type AddFacultyRequest struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Password   string `json:"password" binding:"required"`
}

// DeleteFacultyRequest identifies the account to remove; the password is
// re-verified before deletion.
type DeleteFacultyRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FacultyOut is one faculty account in list responses
type FacultyOut struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Year       string `json:"year"`
}

func (s *Server) dashboard(c *gin.Context) {
	var totalStudents, totalFaculty, totalAttendance int64
	s.db.Model(&models.Student{}).Count(&totalStudents)
	s.db.Model(&models.User{}).Where("role = ?", models.RoleFaculty).Count(&totalFaculty)
	s.db.Model(&models.AttendanceRecord{}).Count(&totalAttendance)

	c.JSON(http.StatusOK, gin.H{
		"totalStudents":          totalStudents,
		"totalFaculty":           totalFaculty,
		"totalAttendanceRecords": totalAttendance,
	})
}

func (s *Server) listFaculty(c *gin.Context) {
	var faculty []models.User
	if err := s.db.Where("role = ?", models.RoleFaculty).Order("created_at").Find(&faculty).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list faculty")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	out := make([]FacultyOut, len(faculty))
	for i, f := range faculty {
		out[i] = FacultyOut{
			ID:         f.ID,
			Name:       f.Name,
			Email:      f.Email,
			Department: f.Department,
			Year:       f.Year,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) addFaculty(c *gin.Context) {
	var req AddFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var existing models.User
	if err := s.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	faculty := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.RoleFaculty,
		Department:   req.Department,
		Year:         req.Year,
	}
	if err := s.db.Create(faculty).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create faculty")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	s.logger.Info().Str("user_id", faculty.ID).Str("email", faculty.Email).Msg("Faculty created")

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Faculty '%s' added successfully", faculty.Name),
		"id":      faculty.ID,
	})
}

func (s *Server) deleteFaculty(c *gin.Context) {
	var req DeleteFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email and password required"})
		return
	}

	var faculty models.User
	err := s.db.Where("email = ? AND role = ?", req.Email, models.RoleFaculty).First(&faculty).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Faculty not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find faculty")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	if err := auth.VerifyPassword(req.Password, faculty.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid password"})
		return
	}

	if err := s.db.Delete(&faculty).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete faculty")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete faculty"})
		return
	}

	s.logger.Info().Str("user_id", faculty.ID).Msg("Faculty deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Faculty deleted successfully"})
}
