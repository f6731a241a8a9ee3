// Package config provides configuration management for vitrine.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for vitrine.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/vitrine)
	ConfigDir string

	// DataDir is the directory for data files (~/.local/share/vitrine)
	DataDir string

	// CacheDir is the directory for cache files (~/.cache/vitrine)
	CacheDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir: filepath.Join(appData, "vitrine"),
			DataDir:   filepath.Join(localAppData, "vitrine"),
			CacheDir:  filepath.Join(localAppData, "vitrine", "cache"),
		}
	}

	// Unix-like systems follow XDG Base Directory spec
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	return &Paths{
		ConfigDir: filepath.Join(configHome, "vitrine"),
		DataDir:   filepath.Join(dataHome, "vitrine"),
		CacheDir:  filepath.Join(cacheHome, "vitrine"),
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the path to the viewer log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "vitrine.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.ConfigDir,
		p.DataDir,
		p.CacheDir,
		p.LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
