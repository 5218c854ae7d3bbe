package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIURL    = "HAULCTL_API_URL"
	EnvToken     = "HAULCTL_TOKEN"
	EnvMirrorDSN = "HAULCTL_MIRROR_DSN"
)

// LoadDotEnv reads KEY=value pairs from the given .env files into the
// process environment. Variables that are already set win. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides onto the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvMirrorDSN); v != "" {
		c.Mirror.DSN = v
	}
}

// EnvTokenValue returns the token from the environment, if set.
func EnvTokenValue() string {
	return os.Getenv(EnvToken)
}
