package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"billtrack/internal/errors"
	"billtrack/internal/tracker"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration structure.
type Config struct {
	Tracker TrackerConfig `yaml:"tracker"`
	Storage StorageConfig `yaml:"storage"`
	Scan    ScanConfig    `yaml:"scan"`
	Watch   WatchConfig   `yaml:"watch"`
	Filing  FilingConfig  `yaml:"filing"`
	Logging LoggingConfig `yaml:"logging"`
	Theme   Theme         `yaml:"theme"`
}

// TrackerConfig holds the folder being tracked and the tracker settings a new
// session starts with.
type TrackerConfig struct {
	Folder             string           `yaml:"folder"`               // Root folder of the bills
	GSTSubmittedFolder string           `yaml:"gst_submitted_folder"` // Where filed bills are moved
	Settings           tracker.Settings `yaml:"settings"`
}

// StorageConfig selects where tracker state is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // json or sqlite
	Path    string `yaml:"path"`    // File for the backend; empty uses the default location
}

// ScanConfig controls folder scanning.
type ScanConfig struct {
	IgnorePatterns []string `yaml:"ignore_patterns"` // Glob patterns relative to the root
	IncludeHidden  bool     `yaml:"include_hidden"`  // Include dot files and dot directories
	DetectContent  bool     `yaml:"detect_content"`  // Sniff content types
	MaxDepth       int      `yaml:"max_depth"`       // 0 means unlimited
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"` // Quiet period before a rescan
}

// Debounce returns the debounce period as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// FilingConfig controls how sent bills are moved into the submitted folder.
type FilingConfig struct {
	Collision string `yaml:"collision"` // rename, skip or overwrite
	Backup    bool   `yaml:"backup"`    // Keep a copy of an overwritten file
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug or info
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

// Theme is the palette used by the terminal UI.
type Theme struct {
	Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
	Primary  string `yaml:"primary"`  // Primary color for branding
	Success  string `yaml:"success"`  // Success message color
	Warning  string `yaml:"warning"`  // Warning message color
	Error    string `yaml:"error"`    // Error message color
	Info     string `yaml:"info"`     // Informational message color
	Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
	Border   string `yaml:"border"`   // Border color for frames
}

// Dir returns the configuration directory (~/.config/billtrack).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "billtrack"), nil
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/billtrack/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Fields absent from the file keep their defaults.
	theme := cfg.Theme.Name
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	// A named theme supplies the palette; colours set in the file still win.
	if cfg.Theme.Name != theme {
		cfg.ApplyTheme(cfg.Theme.Name)
		_ = yaml.Unmarshal(data, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Tracker.Settings = tracker.DefaultSettings()

	cfg.Storage.Backend = BackendJSON

	cfg.Scan.IgnorePatterns = []string{"**/.git/**", "**/*.tmp", "**/~$*"}
	cfg.Scan.IncludeHidden = false
	cfg.Scan.DetectContent = true

	cfg.Watch.Enabled = false
	cfg.Watch.DebounceMs = 500

	cfg.Filing.Collision = "rename"

	cfg.Logging.Level = "info"

	cfg.ApplyTheme("default")

	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// StoragePath returns the configured state file, falling back to a file named
// after the backend in the configuration directory.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == BackendSQLite {
		return filepath.Join(dir, "billtrack.db"), nil
	}
	return filepath.Join(dir, "state.json"), nil
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewFileError("failed to create config directory", dir, errors.FileCreateFailed, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFileError("failed to write config file", path, errors.FileOperationFailed, err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return invalid("invalid storage backend", "storage.backend="+c.Storage.Backend)
	}

	s := c.Tracker.Settings
	if s.OverdueDays < 0 {
		return invalid("overdue days must be >= 0", "tracker.settings.overdue_days")
	}
	if s.ReminderDays < 0 {
		return invalid("reminder days must be >= 0", "tracker.settings.reminder_days")
	}
	if s.PageSize < 1 {
		return invalid("page size must be >= 1", "tracker.settings.page_size")
	}
	if s.SyncIntervalSeconds < 0 {
		return invalid("sync interval must be >= 0 seconds", "tracker.settings.sync_interval_seconds")
	}

	for i, pattern := range c.Scan.IgnorePatterns {
		if strings.TrimSpace(pattern) == "" {
			return invalid("ignore pattern cannot be empty", fmt.Sprintf("scan.ignore_patterns[%d]", i))
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return errors.NewConfigError("invalid ignore pattern", pattern, errors.InvalidConfig, err)
		}
	}
	if c.Scan.MaxDepth < 0 {
		return invalid("max depth must be >= 0", "scan.max_depth")
	}

	if c.Watch.Enabled && c.Watch.DebounceMs < 1 {
		return invalid("watch debounce must be >= 1ms", "watch.debounce_ms")
	}

	switch c.Filing.Collision {
	case "", "rename", "skip", "overwrite":
	default:
		return invalid("invalid collision strategy", "filing.collision="+c.Filing.Collision)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info":
	default:
		return invalid("invalid log level", "logging.level="+c.Logging.Level)
	}

	return nil
}

func invalid(msg, param string) error {
	return errors.NewConfigError(msg, param, errors.InvalidConfig, nil)
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(dir string) *Config {
	cfg := defaultConfig()
	cfg.Tracker.Folder = dir
	cfg.Storage.Path = filepath.Join(dir, ".billtrack", "state.json")
	cfg.Scan.DetectContent = false
	cfg.Watch.DebounceMs = 20
	return cfg
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"warning":  "222", // Light Yellow
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"warning":  "241", // Medium Grey
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
