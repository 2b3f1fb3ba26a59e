// Package config stores ReliefNet client preferences on disk and layers
// RELIEFNET_* environment overrides on top.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds user preferences
type Config struct {
	BaseURL        string   `json:"base_url"`
	Theme          string   `json:"theme"` // "light" or "dark"
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000/api/v1",
		Theme:          "light",
		TimeoutSeconds: 30,
	}
}

// ConfigDir returns the directory where config is stored
func ConfigDir() (string, error) {
	// Prefer project-local .reliefnet directory if present or creatable
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".reliefnet")
		if stat, err := os.Stat(localDir); (err == nil && stat.IsDir()) || os.IsNotExist(err) {
			return localDir, nil
		}
	}

	// Fallback to home-level config
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".reliefnet"), nil
}

// ConfigFile returns the full path to the config file
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// CookieFile returns the path of the persisted session cookies.
func CookieFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cookies.json"), nil
}

// Load reads the configuration from disk and applies environment overrides.
func Load() (Config, error) {
	path, err := ConfigFile()
	if err != nil {
		return applyEnv(DefaultConfig()), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(DefaultConfig()), nil
	}
	if err != nil {
		return applyEnv(DefaultConfig()), err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}

	return applyEnv(cfg), nil
}

// applyEnv lets environment variables win over the config file.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("RELIEFNET_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("RELIEFNET_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("RELIEFNET_LAT"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Latitude = &lat
		}
	}
	if v := os.Getenv("RELIEFNET_LON"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Longitude = &lon
		}
	}
	return cfg
}

// Save writes the configuration to disk
func Save(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigFile()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
