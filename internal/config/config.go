// Package config provides configuration management for fast.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xvierd/fast-cli/internal/domain"
)

const defaultDataDir = "~/.fast"

// Config holds all configuration for the fast application.
type Config struct {
	DefaultProtocol string             `mapstructure:"default_protocol"`
	AutoFinalize    bool               `mapstructure:"auto_finalize"`
	Protocols       []ProtocolConfig   `mapstructure:"protocols"`
	Notifications   NotificationConfig `mapstructure:"notifications"`
	Goals           GoalsConfig        `mapstructure:"goals"`
	MCP             MCPConfig          `mapstructure:"mcp"`
	Storage         StorageConfig      `mapstructure:"storage"`
	Log             LogConfig          `mapstructure:"log"`
	Theme           ThemeConfig        `mapstructure:"theme"`
}

// ProtocolConfig is a user-defined protocol added to the built-in catalog.
type ProtocolConfig struct {
	Name      string `mapstructure:"name"`
	FastHours int    `mapstructure:"fast_hours"`
	EatHours  int    `mapstructure:"eat_hours"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorActive           string `mapstructure:"color_active"`
	ColorPaused           string `mapstructure:"color_paused"`
	ColorComplete         string `mapstructure:"color_complete"`
	ColorTitle            string `mapstructure:"color_title"`
	ColorProtocol         string `mapstructure:"color_protocol"`
	ColorHelp             string `mapstructure:"color_help"`
	ActiveGradientStart   string `mapstructure:"active_gradient_start"`
	ActiveGradientEnd     string `mapstructure:"active_gradient_end"`
	PausedGradientStart   string `mapstructure:"paused_gradient_start"`
	PausedGradientEnd     string `mapstructure:"paused_gradient_end"`
	CompleteGradientStart string `mapstructure:"complete_gradient_start"`
	CompleteGradientEnd   string `mapstructure:"complete_gradient_end"`
	IconApp               string `mapstructure:"icon_app"`
	IconStats             string `mapstructure:"icon_stats"`
	IconStreak            string `mapstructure:"icon_streak"`
	IconPaused            string `mapstructure:"icon_paused"`
	IconComplete          string `mapstructure:"icon_complete"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorActive:           "#10B981",
		ColorPaused:           "#6B7280",
		ColorComplete:         "#F59E0B",
		ColorTitle:            "#6B7280",
		ColorProtocol:         "#A0AEC0",
		ColorHelp:             "#95A5A6",
		ActiveGradientStart:   "#10B981",
		ActiveGradientEnd:     "#34D399",
		PausedGradientStart:   "#6B7280",
		PausedGradientEnd:     "#4B5563",
		CompleteGradientStart: "#F59E0B",
		CompleteGradientEnd:   "#FBBF24",
		IconApp:               "⏱",
		IconStats:             "📊",
		IconStreak:            "🔥",
		IconPaused:            "⏸",
		IconComplete:          "✅",
	}
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// GoalsConfig holds the weekly and streak goals.
type GoalsConfig struct {
	WeeklyDays int `mapstructure:"weekly_days"`
	StreakDays int `mapstructure:"streak_days"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds debug logging settings.
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	goals := domain.DefaultGoals()
	return &Config{
		DefaultProtocol: "16:8",
		AutoFinalize:    true,
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Goals: GoalsConfig{
			WeeklyDays: goals.WeeklyDays,
			StreakDays: goals.StreakDays,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	setDefaults()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	if _, err := cfg.Catalog(); err != nil {
		return nil, fmt.Errorf("invalid protocols in %s: %w", configPath, err)
	}

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	protocols := make([]map[string]any, 0, len(cfg.Protocols))
	for _, p := range cfg.Protocols {
		protocols = append(protocols, map[string]any{
			"name":       p.Name,
			"fast_hours": p.FastHours,
			"eat_hours":  p.EatHours,
		})
	}

	viper.Set("default_protocol", cfg.DefaultProtocol)
	viper.Set("auto_finalize", cfg.AutoFinalize)
	viper.Set("protocols", protocols)
	viper.Set("notifications.enabled", cfg.Notifications.Enabled)
	viper.Set("notifications.sound", cfg.Notifications.Sound)
	viper.Set("goals.weekly_days", cfg.Goals.WeeklyDays)
	viper.Set("goals.streak_days", cfg.Goals.StreakDays)
	viper.Set("mcp.enabled", cfg.MCP.Enabled)
	viper.Set("storage.data_dir", collapseHome(cfg.Storage.DataDir))
	viper.Set("log.debug", cfg.Log.Debug)
	viper.Set("log.file", cfg.Log.File)

	return viper.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fast", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "fast.db")
}

// Catalog returns the built-in protocols followed by the configured ones.
func (c *Config) Catalog() (*domain.Catalog, error) {
	protocols := domain.DefaultProtocols()
	for _, pc := range c.Protocols {
		p, err := domain.NewProtocol(pc.Name, pc.FastHours, pc.EatHours)
		if err != nil {
			return nil, err
		}
		protocols = append(protocols, p)
	}
	return domain.NewCatalog(protocols...)
}

// DomainGoals returns the goals as domain values. Unset goals fall back
// to the defaults.
func (c *Config) DomainGoals() domain.Goals {
	goals := domain.DefaultGoals()
	if c.Goals.WeeklyDays > 0 {
		goals.WeeklyDays = c.Goals.WeeklyDays
	}
	if c.Goals.StreakDays > 0 {
		goals.StreakDays = c.Goals.StreakDays
	}
	return goals
}

// expandHome resolves a leading "~" against the home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		path = defaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// collapseHome writes paths under the home directory back in "~" form.
func collapseHome(path string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return path
	}
	if path == homeDir {
		return "~"
	}
	if rel, ok := strings.CutPrefix(path, homeDir+string(filepath.Separator)); ok {
		return "~/" + filepath.ToSlash(rel)
	}
	return path
}

// setDefaults sets default values for viper.
func setDefaults() {
	defaults := DefaultConfig()
	viper.SetDefault("default_protocol", defaults.DefaultProtocol)
	viper.SetDefault("auto_finalize", defaults.AutoFinalize)
	viper.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	viper.SetDefault("notifications.sound", defaults.Notifications.Sound)
	viper.SetDefault("goals.weekly_days", defaults.Goals.WeeklyDays)
	viper.SetDefault("goals.streak_days", defaults.Goals.StreakDays)
	viper.SetDefault("mcp.enabled", defaults.MCP.Enabled)
	viper.SetDefault("storage.data_dir", defaultDataDir)
	viper.SetDefault("log.debug", false)
	viper.SetDefault("log.file", "")

	theme := defaults.Theme
	viper.SetDefault("theme.color_active", theme.ColorActive)
	viper.SetDefault("theme.color_paused", theme.ColorPaused)
	viper.SetDefault("theme.color_complete", theme.ColorComplete)
	viper.SetDefault("theme.color_title", theme.ColorTitle)
	viper.SetDefault("theme.color_protocol", theme.ColorProtocol)
	viper.SetDefault("theme.color_help", theme.ColorHelp)
	viper.SetDefault("theme.active_gradient_start", theme.ActiveGradientStart)
	viper.SetDefault("theme.active_gradient_end", theme.ActiveGradientEnd)
	viper.SetDefault("theme.paused_gradient_start", theme.PausedGradientStart)
	viper.SetDefault("theme.paused_gradient_end", theme.PausedGradientEnd)
	viper.SetDefault("theme.complete_gradient_start", theme.CompleteGradientStart)
	viper.SetDefault("theme.complete_gradient_end", theme.CompleteGradientEnd)
	viper.SetDefault("theme.icon_app", theme.IconApp)
	viper.SetDefault("theme.icon_stats", theme.IconStats)
	viper.SetDefault("theme.icon_streak", theme.IconStreak)
	viper.SetDefault("theme.icon_paused", theme.IconPaused)
	viper.SetDefault("theme.icon_complete", theme.IconComplete)
}
