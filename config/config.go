package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Game configuration
	Game GameConfig `json:"game" yaml:"game"`

	// Progress store configuration
	Store StoreConfig `json:"store" yaml:"store"`

	// Server configuration
	Server ServerConfig `json:"server" yaml:"server"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Starting meters for a new game
	StartingChaos       int `json:"starting_chaos" yaml:"starting_chaos" env:"NOODLE_STARTING_CHAOS"`
	StartingPrestige    int `json:"starting_prestige" yaml:"starting_prestige" env:"NOODLE_STARTING_PRESTIGE"`
	StartingIngredients int `json:"starting_ingredients" yaml:"starting_ingredients" env:"NOODLE_STARTING_INGREDIENTS"`
	StartingWorkers     int `json:"starting_workers" yaml:"starting_workers" env:"NOODLE_STARTING_WORKERS"`
	StartingEnergy      int `json:"starting_energy" yaml:"starting_energy" env:"NOODLE_STARTING_ENERGY"`

	// Random seed, 0 seeds from the clock
	Seed int64 `json:"seed" yaml:"seed" env:"NOODLE_SEED"`

	// Directory holding optional cards.json / events.json overrides
	DataDir string `json:"data_dir" yaml:"data_dir" env:"NOODLE_DATA_DIR"`
}

// StoreConfig holds progress store configuration
type StoreConfig struct {
	// Store driver (memory, file, sqlite)
	Driver string `json:"driver" yaml:"driver" env:"NOODLE_STORE_DRIVER"`

	// Path to the store file or database
	Path string `json:"path" yaml:"path" env:"NOODLE_STORE_PATH"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" yaml:"port" env:"NOODLE_PORT"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" yaml:"log_level" env:"NOODLE_LOG_LEVEL"`

	// Base URL encoded into progress share QR codes
	ShareBaseURL string `json:"share_base_url" yaml:"share_base_url" env:"NOODLE_SHARE_BASE_URL"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			StartingChaos:       10,
			StartingPrestige:    20,
			StartingIngredients: 30,
			StartingWorkers:     5,
			StartingEnergy:      100,
			Seed:                0,
			DataDir:             "",
		},
		Store: StoreConfig{
			Driver: "file",
			Path:   "./data/progress.json",
		},
		Server: ServerConfig{
			Port:         "8080",
			LogLevel:     "info",
			ShareBaseURL: "https://noodle.example/share",
		},
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func encode(config Config, path string) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(config)
	}
	return json.MarshalIndent(config, "", "  ")
}

// LoadConfig loads configuration from a JSON or YAML file, creating it with
// defaults when missing, then applies NOODLE_* environment overrides
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
	case err != nil:
		return config, err
	case isYAML(path):
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := ParseEnv(&config); err != nil {
		return config, err
	}

	return config, nil
}

// ParseEnv applies environment variable overrides to target
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := encode(config, path)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
