package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all smartbudget client configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
}

// ServerConfig holds the SmartBudget API endpoint settings.
type ServerConfig struct {
	URL string `toml:"url"`
}

// AppearanceConfig holds theme and formatting settings.
type AppearanceConfig struct {
	Theme          string `toml:"theme"`
	CurrencySymbol string `toml:"currency_symbol"`
}

// DashboardConfig holds dashboard display preferences.
type DashboardConfig struct {
	TrendView string `toml:"trend_view"` // weekly, monthly, yearly
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL: "http://localhost:5000/api",
		},
		Appearance: AppearanceConfig{
			Theme:          "flexoki-dark",
			CurrencySymbol: "₹",
		},
		Dashboard: DashboardConfig{
			TrendView: "monthly",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "smartbudget")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// TokenPath returns the path of the persisted session token.
// The token file is the only durable client state besides the config itself.
func TokenPath() string {
	return filepath.Join(Dir(), "token")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	_ = godotenv.Load() // best-effort, a missing .env is fine

	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ServerURL returns the API base URL from env var or config, in that order.
func ServerURL(cfg Config) string {
	if url := os.Getenv("SMARTBUDGET_SERVER"); url != "" {
		return url
	}
	return cfg.Server.URL
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
