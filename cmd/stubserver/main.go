package main

import (
	"os"

	"github.com/edusnap-dev/edusnap/internal/logger"
	"github.com/edusnap-dev/edusnap/internal/models"
	"github.com/edusnap-dev/edusnap/internal/stubserver"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger.Init(envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", "console"))
	log := logger.GetLogger()

	srv, err := stubserver.New(envOr("EDUSNAP_DB", "edusnap.sqlite"), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Default accounts so a fresh checkout is usable immediately.
	if err := srv.SeedUser("admin@edusnap.local", "admin123", "Admin", models.RoleAdmin); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin user")
	}
	if err := srv.SeedUser("faculty@edusnap.local", "faculty123", "Faculty Member", models.RoleFaculty); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed faculty user")
	}

	addr := envOr("EDUSNAP_LISTEN", ":8000")
	log.Info().Str("addr", addr).Msg("Starting EduSnap stub server...")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
