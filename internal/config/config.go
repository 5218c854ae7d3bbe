package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/haulops/haulctl/internal/util"
)

// Config is the haulctl settings file. Every leaf field carries a config
// key so `haulctl config` can get, set and list it by name.
type Config struct {
	API     APIConfig     `toml:"api"`
	View    ViewConfig    `toml:"view"`
	Poll    PollConfig    `toml:"poll"`
	Export  ExportConfig  `toml:"export"`
	Archive ArchiveConfig `toml:"archive"`
	Mirror  MirrorConfig  `toml:"mirror"`
	Log     LogConfig     `toml:"log"`

	// Warnings lists file values Load replaced with defaults.
	Warnings []string `toml:"-"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL        string `toml:"base_url" config:"api.base_url" default:"http://localhost:5000/api" desc:"Backend base URL"`
	TimeoutSeconds int    `toml:"timeout_seconds" config:"api.timeout_seconds" default:"15" min:"1" max:"300" desc:"Per-request timeout"`
}

// ViewConfig holds list view defaults.
type ViewConfig struct {
	RowsPerPage  int `toml:"rows_per_page" config:"view.rows_per_page" default:"10" options:"5,10,15,20" desc:"Rows per page (5, 10, 15 or 20)"`
	FlashSeconds int `toml:"flash_seconds" config:"view.flash_seconds" default:"4" min:"1" max:"60" desc:"How long error banners stay up"`
}

// PollConfig controls the negotiation thread refresh.
type PollConfig struct {
	IntervalSeconds int `toml:"interval_seconds" config:"poll.interval_seconds" default:"5" min:"1" max:"3600" desc:"Thread refresh interval for --follow"`
}

// ExportConfig controls where CSV exports land.
type ExportConfig struct {
	Dir string `toml:"dir" config:"export.dir" desc:"Directory for CSV exports (empty = current directory)"`
}

// ArchiveConfig is the optional S3-compatible bucket for export --upload.
type ArchiveConfig struct {
	Endpoint  string `toml:"endpoint" config:"archive.endpoint" desc:"S3-compatible endpoint (host:port)"`
	Bucket    string `toml:"bucket" config:"archive.bucket" default:"haul-exports" desc:"Bucket for uploaded exports"`
	AccessKey string `toml:"access_key" config:"archive.access_key" desc:"Access key"`
	SecretKey string `toml:"secret_key" config:"archive.secret_key" secret:"true" desc:"Secret key"`
	UseSSL    bool   `toml:"use_ssl" config:"archive.use_ssl" default:"true" desc:"Use TLS for the endpoint"`
}

// Enabled reports whether uploads can be attempted.
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != ""
}

// MirrorConfig is the optional PostgreSQL reporting mirror.
type MirrorConfig struct {
	DSN string `toml:"dsn" config:"mirror.dsn" secret:"true" desc:"PostgreSQL connection string for haulctl mirror"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `toml:"level" config:"log.level" default:"warn" desc:"debug, info, warn or error"`
	File  string `toml:"file" config:"log.file" desc:"Also write JSON logs to this file"`
}

// Default returns a config with every default applied.
func Default() *Config {
	return &Config{
		API:     APIConfig{BaseURL: "http://localhost:5000/api", TimeoutSeconds: 15},
		View:    ViewConfig{RowsPerPage: 10, FlashSeconds: 4},
		Poll:    PollConfig{IntervalSeconds: 5},
		Archive: ArchiveConfig{Bucket: "haul-exports", UseSSL: true},
		Log:     LogConfig{Level: "warn"},
	}
}

// Path returns the config file path.
func Path() string {
	return util.ConfigPath()
}

// Load reads the config file at path, falling back to defaults for a
// missing file or missing values. Out-of-range numbers are reset to their
// default and reported in Warnings. Environment overrides are not applied;
// see ApplyEnv.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, util.NewError("Invalid config file").
				WithMessage(err.Error()).
				WithContext(path).
				WithSuggestion("Fix or remove the file, then run 'haulctl config --list'").
				Wrap(err)
		}
	}

	cfg.fillDefaults()
	cfg.Warnings = cfg.validate()
	return cfg, nil
}

// fillDefaults restores zero values that have no meaning.
func (c *Config) fillDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = d.API.TimeoutSeconds
	}
	if c.View.RowsPerPage == 0 {
		c.View.RowsPerPage = d.View.RowsPerPage
	}
	if c.View.FlashSeconds == 0 {
		c.View.FlashSeconds = d.View.FlashSeconds
	}
	if c.Poll.IntervalSeconds == 0 {
		c.Poll.IntervalSeconds = d.Poll.IntervalSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Save writes the config to path, creating the directory if needed. The
// file may hold credentials, so it is private to the user.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// GetValue returns a value by key.
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a value by key with validation.
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
