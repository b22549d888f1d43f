package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edusnap-dev/edusnap/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <server-url>",
		Short: "Create an edusnap.json pointing at a backend",
		Args:  cobra.ExactArgs(1),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	serverURL := args[0]

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config

	// Keep an existing config's other settings, only update the server
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		cfg.ServerURL = serverURL
	} else {
		cfg = config.DefaultConfig()
		cfg.ServerURL = serverURL
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s\n", configPath)
	fmt.Printf("  Server: %s\n", cfg.ServerURL)
	fmt.Println("\nNext: edusnap login")
	return nil
}
