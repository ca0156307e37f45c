package explorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const defaultConfigFile = "config.json"

// Environment override for the service address, loaded from the process
// environment or a .env file next to the binary.
const apiURLEnv = "REVIEWEXPLORER_API_URL"

const defaultAPIBaseURL = "http://localhost:8081"

// Config holds the client settings persisted between runs.
type Config struct {
	APIBaseURL       string `json:"apiBaseUrl"`
	SearchDebounceMS int    `json:"searchDebounceMs"`
	LogLevel         string `json:"logLevel"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.SearchDebounceMS <= 0 {
		c.SearchDebounceMS = int(DefaultSuggestDelay / time.Millisecond)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// SuggestDelay converts the configured debounce into a duration.
func (c Config) SuggestDelay() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields the defaults. The API address can be
// overridden through the environment so deployments don't need to edit the
// config file.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// SaveConfig persists configuration to disk through a temp-file rename.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	// Missing .env files are fine; the process environment still applies.
	_ = godotenv.Load()
	if v := os.Getenv(apiURLEnv); v != "" {
		cfg.APIBaseURL = v
	}
}
