package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the calendar UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used for display and generation
	// (e.g. "Europe/Zurich").
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls the first day of the week in calendar views.
	// Supported values: "monday" (default), "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron-style schedule (e.g. "0 5 * * *") for
	// regenerating the data files. Empty disables scheduled refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// DataDir is where events.json and meta.json live.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// EventsURL / MetaURL optionally point the loader at remote copies of
	// the data files. When empty the loader reads from DataDir.
	EventsURL string `yaml:"events_url,omitempty" json:"events_url,omitempty"`
	MetaURL   string `yaml:"meta_url,omitempty" json:"meta_url,omitempty"`

	// SearchURL is the sports-programme listing the generator scrapes.
	SearchURL string `yaml:"search_url" json:"search_url"`

	// PhaseLookaheadDays is how far phase-only rows are projected into
	// the future so the week view stays useful.
	PhaseLookaheadDays int `yaml:"phase_lookahead_days" json:"phase_lookahead_days"`

	// SnapshotPath is where the page snapshot PNG is written.
	SnapshotPath string `yaml:"snapshot_path" json:"snapshot_path"`

	// SnapshotWidth / SnapshotHeight are the viewport dimensions used when
	// capturing the page snapshot.
	SnapshotWidth  int `yaml:"snapshot_width" json:"snapshot_width"`
	SnapshotHeight int `yaml:"snapshot_height" json:"snapshot_height"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:             "127.0.0.1:8080",
		Timezone:           "Europe/Zurich",
		WeekStart:          "monday",
		RefreshCron:        "0 5 * * *",
		DataDir:            "./data",
		SearchURL:          "https://www.zssw.unibe.ch/usp/zms/search.php",
		PhaseLookaheadDays: 28,
		SnapshotPath:       "./data/preview.png",
		SnapshotWidth:      1280,
		SnapshotHeight:     960,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Zurich"
	}
	switch c.WeekStart {
	case "monday", "sunday":
		// ok
	default:
		// Unknown value; fall back to monday to avoid surprising layouts.
		c.WeekStart = "monday"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.SearchURL == "" {
		c.SearchURL = "https://www.zssw.unibe.ch/usp/zms/search.php"
	}
	if c.PhaseLookaheadDays <= 0 {
		c.PhaseLookaheadDays = 28
	}
	if c.SnapshotPath == "" {
		c.SnapshotPath = filepath.Join(c.DataDir, "preview.png")
	}
	if c.SnapshotWidth <= 0 {
		c.SnapshotWidth = 1280
	}
	if c.SnapshotHeight <= 0 {
		c.SnapshotHeight = 960
	}
}

// EventsPath returns the on-disk location of events.json.
func (c *Config) EventsPath() string {
	return filepath.Join(c.DataDir, "events.json")
}

// MetaPath returns the on-disk location of meta.json.
func (c *Config) MetaPath() string {
	return filepath.Join(c.DataDir, "meta.json")
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create the parent directory if needed,
//     write a default config with 0600 perms, and return the defaults.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".unical-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config delegating to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
