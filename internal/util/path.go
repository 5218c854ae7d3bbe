package util

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	AppDir     = "haulctl"
	ConfigFile = "config.toml"
	TokenFile  = "token"
)

// ConfigDir returns the per-user configuration directory.
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", AppDir)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), AppDir)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDir)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", AppDir)
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// TokenPath returns the path to the stored bearer token.
func TokenPath() string {
	return filepath.Join(ConfigDir(), TokenFile)
}

// ExportFilename builds "<section>_<YYYY-MM-DD>.csv". Spaces in the section
// become underscores so the name survives shells and object stores.
func ExportFilename(section string, now time.Time) string {
	section = strings.ReplaceAll(strings.TrimSpace(section), " ", "_")
	return fmt.Sprintf("%s_%s.csv", section, now.Format("2006-01-02"))
}

// ExportPath joins the export directory and file name, expanding a leading "~".
func ExportPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return filepath.Join(dir, name)
}
