// Package stubserver is a development and test double for the EduSnap
// backend. It implements the HTTP contract the CLI consumes — auth, faculty
// and student management, attendance upload, reports — against an embedded
// SQLite database, with canned attendance detection in place of the real
// face-recognition service. It is not the product backend.
package stubserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edusnap-dev/edusnap/internal/auth"
	"github.com/edusnap-dev/edusnap/internal/models"
)

// Server represents the stub HTTP server
type Server struct {
	router *gin.Engine
	db     *gorm.DB
	logger zerolog.Logger

	mu          sync.Mutex
	latestImage string
}

// New creates a stub server backed by the SQLite database at dbPath
// (":memory:" for tests).
func New(dbPath string, zlog zerolog.Logger) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Per-instance JWT secret; stub sessions do not survive restarts
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	auth.InitializeJWT(hex.EncodeToString(secretBytes))

	server := &Server{
		db:     db,
		logger: zlog,
	}
	server.setupRouter()

	return server, nil
}

// SeedUser creates an account, hashing the password. Existing emails are
// left alone so repeated seeding is safe.
func (s *Server) SeedUser(email, password, name, role string) error {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Handler exposes the router for httptest servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS so the browser client can use the stub too
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Public auth endpoint
	s.router.POST("/api/auth/login", s.login)

	// Authenticated API routes (JWT required)
	api := s.router.Group("/api")
	api.Use(JWTAuthMiddleware(s.db, s.logger))
	{
		api.POST("/auth/logout", s.logout)

		// Admin
		admin := api.Group("/admin")
		admin.Use(RequireRole(models.RoleAdmin, s.logger))
		{
			admin.GET("/dashboard", s.dashboard)
			admin.GET("/faculty", s.listFaculty)
			admin.POST("/add-faculty", s.addFaculty)
			admin.DELETE("/delete-faculty", s.deleteFaculty)
		}

		// Students (faculty)
		students := api.Group("/students")
		students.Use(RequireRole(models.RoleFaculty, s.logger))
		{
			students.POST("/add", s.addStudent)
		}

		// Attendance (faculty)
		attendance := api.Group("/attendance")
		attendance.Use(RequireRole(models.RoleFaculty, s.logger))
		{
			attendance.POST("/upload", s.uploadAttendance)
			attendance.GET("/results", s.attendanceResults)
			attendance.GET("/latest-image", s.latestImageRef)
			attendance.GET("/download/latest/:format", s.downloadReport)
		}

		// Reports, per role
		api.GET("/reports/admin", RequireRole(models.RoleAdmin, s.logger), s.adminReports)
		api.GET("/reports/faculty", RequireRole(models.RoleFaculty, s.logger), s.facultyReports)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "edusnap-stub",
	})
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM
func (s *Server) Start(addr string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting stub server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
