package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const ConfigFileName = "edusnap.json"

// DefaultServerURL is used when neither the config file nor the environment
// names a backend address.
const DefaultServerURL = "http://localhost:8000"

// Config represents the CLI configuration file
type Config struct {
	// ServerURL is the base address of the attendance backend.
	ServerURL string `json:"server_url"`
	// SessionStorage selects where the session record is persisted:
	// "file" (default) or "keyring".
	SessionStorage string `json:"session_storage,omitempty"`
}

// DefaultConfig returns a configuration pointing at a local backend
func DefaultConfig() *Config {
	return &Config{
		ServerURL: DefaultServerURL,
	}
}

// FindConfigFile searches for edusnap.json in the current directory and
// parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Search upwards until we find edusnap.json or reach root
	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from the current directory or parent
// directories. When no config file exists the defaults are used, so the CLI
// works against a local backend without an init step. EDUSNAP_SERVER_URL
// overrides the configured address either way.
func LoadFromCurrentDir() (*Config, error) {
	var cfg *Config

	configPath, err := FindConfigFile()
	if err != nil {
		cfg = DefaultConfig()
	} else {
		cfg, err = Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	if url := os.Getenv("EDUSNAP_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	return cfg, nil
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
