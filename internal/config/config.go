package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the vitrine configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Playback PlaybackConfig `yaml:"playback"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
}

// SiteConfig holds settings describing the site build to display.
type SiteConfig struct {
	Dir         string `yaml:"dir"`          // Directory containing content.json and images/
	OpenCommand string `yaml:"open_command"` // External viewer template, {path} is replaced (empty = disabled)
}

// PlaybackConfig holds the timing settings of the presentation engine.
type PlaybackConfig struct {
	VariationDurationMs int `yaml:"variation_duration_ms"` // Dwell time per artwork variation
	CrossFadeDurationMs int `yaml:"cross_fade_duration_ms"` // Cross-fade between variations
	UnitFadeDurationMs  int `yaml:"unit_fade_duration_ms"`  // Fade-through-black between units
	RecentHistorySize   int `yaml:"recent_history_size"`    // Units excluded from random selection
	DebounceMs          int `yaml:"debounce_ms"`            // Manual navigation debounce window
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	ReducedMotion bool `yaml:"reduced_motion"` // No ambient drift, fast fades
	FPS           int  `yaml:"fps"`            // Animation frame rate
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `yaml:"file"`  // Log file path (empty = default under data dir)
	Debug bool   `yaml:"debug"` // Log at debug level
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Dir:         ".",
			OpenCommand: "",
		},
		Playback: PlaybackConfig{
			VariationDurationMs: 10000,
			CrossFadeDurationMs: 2000,
			UnitFadeDurationMs:  1500,
			RecentHistorySize:   5,
			DebounceMs:          100,
		},
		Display: DisplayConfig{
			ReducedMotion: false,
			FPS:           15,
		},
		Log: LogConfig{
			File:  "", // Use default from paths
			Debug: false,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading,
// and invalid values are fixed with warnings. Validation never
// prevents startup.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			cfg.ValidateAndFix()
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.ValidateAndFix()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	// Derive directory from path and ensure it exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// VariationDuration returns the per-variation dwell time.
func (c *Config) VariationDuration() time.Duration {
	return time.Duration(c.Playback.VariationDurationMs) * time.Millisecond
}

// CrossFadeDuration returns the cross-fade duration, shortened to a fast
// fade when reduced motion is on.
func (c *Config) CrossFadeDuration() time.Duration {
	if c.Display.ReducedMotion {
		return reducedMotionFade
	}
	return time.Duration(c.Playback.CrossFadeDurationMs) * time.Millisecond
}

// UnitFadeDuration returns the inter-unit fade-through-black duration,
// shortened under reduced motion.
func (c *Config) UnitFadeDuration() time.Duration {
	if c.Display.ReducedMotion {
		return reducedMotionFade
	}
	return time.Duration(c.Playback.UnitFadeDurationMs) * time.Millisecond
}

// Debounce returns the manual navigation debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Playback.DebounceMs) * time.Millisecond
}

// reducedMotionFade is the fade used for all transitions when reduced
// motion is requested.
const reducedMotionFade = 300 * time.Millisecond

// Get retrieves a configuration value by dot-separated key.
// For example: "playback.variation_duration_ms" or "display.reduced_motion"
func (c *Config) Get(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "site":
		return c.getSiteField(field)
	case "playback":
		return c.getPlaybackField(field)
	case "display":
		return c.getDisplayField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "site":
		return c.setSiteField(field, value)
	case "playback":
		return c.setPlaybackField(field, value)
	case "display":
		return c.setDisplayField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getSiteField(field string) (string, error) {
	switch field {
	case "dir":
		return c.Site.Dir, nil
	case "open_command":
		return c.Site.OpenCommand, nil
	default:
		return "", fmt.Errorf("unknown field: site.%s", field)
	}
}

func (c *Config) setSiteField(field, value string) error {
	switch field {
	case "dir":
		if value == "" {
			return fmt.Errorf("invalid site.dir: must not be empty")
		}
		c.Site.Dir = value
	case "open_command":
		c.Site.OpenCommand = value
	default:
		return fmt.Errorf("unknown field: site.%s", field)
	}
	return nil
}

func (c *Config) getPlaybackField(field string) (string, error) {
	switch field {
	case "variation_duration_ms":
		return strconv.Itoa(c.Playback.VariationDurationMs), nil
	case "cross_fade_duration_ms":
		return strconv.Itoa(c.Playback.CrossFadeDurationMs), nil
	case "unit_fade_duration_ms":
		return strconv.Itoa(c.Playback.UnitFadeDurationMs), nil
	case "recent_history_size":
		return strconv.Itoa(c.Playback.RecentHistorySize), nil
	case "debounce_ms":
		return strconv.Itoa(c.Playback.DebounceMs), nil
	default:
		return "", fmt.Errorf("unknown field: playback.%s", field)
	}
}

func (c *Config) setPlaybackField(field, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}

	switch field {
	case "variation_duration_ms":
		c.Playback.VariationDurationMs = v
	case "cross_fade_duration_ms":
		c.Playback.CrossFadeDurationMs = v
	case "unit_fade_duration_ms":
		c.Playback.UnitFadeDurationMs = v
	case "recent_history_size":
		c.Playback.RecentHistorySize = v
	case "debounce_ms":
		c.Playback.DebounceMs = v
	default:
		return fmt.Errorf("unknown field: playback.%s", field)
	}

	if warnings := c.ValidateAndFix(); len(warnings) > 0 {
		return fmt.Errorf("invalid playback.%s: %s", field, warnings[0].Message)
	}
	return nil
}

func (c *Config) getDisplayField(field string) (string, error) {
	switch field {
	case "reduced_motion":
		return strconv.FormatBool(c.Display.ReducedMotion), nil
	case "fps":
		return strconv.Itoa(c.Display.FPS), nil
	default:
		return "", fmt.Errorf("unknown field: display.%s", field)
	}
}

func (c *Config) setDisplayField(field, value string) error {
	switch field {
	case "reduced_motion":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for reduced_motion: %w", err)
		}
		c.Display.ReducedMotion = v
	case "fps":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for fps: %w", err)
		}
		c.Display.FPS = v
		if warnings := c.ValidateAndFix(); len(warnings) > 0 {
			return fmt.Errorf("invalid display.fps: %s", warnings[0].Message)
		}
	default:
		return fmt.Errorf("unknown field: display.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "file":
		return c.Log.File, nil
	case "debug":
		return strconv.FormatBool(c.Log.Debug), nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "file":
		c.Log.File = value
	case "debug":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for debug: %w", err)
		}
		c.Log.Debug = v
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"site.dir",
		"site.open_command",
		"playback.variation_duration_ms",
		"playback.cross_fade_duration_ms",
		"playback.unit_fade_duration_ms",
		"playback.recent_history_size",
		"playback.debounce_ms",
		"display.reduced_motion",
		"display.fps",
		"log.file",
		"log.debug",
	}
}

// ValidationWarning represents a config validation warning.
type ValidationWarning struct {
	Field   string
	Message string
}

// ValidateAndFix validates config values. Invalid values are fixed by
// falling back to defaults or clamping. Returns a list of warnings for
// diagnostics. Validation never prevents startup.
func (c *Config) ValidateAndFix() []ValidationWarning {
	defaults := DefaultConfig()
	var warnings []ValidationWarning

	warn := func(field, msg string) {
		w := ValidationWarning{Field: field, Message: msg}
		warnings = append(warnings, w)
		log.Printf("WARN config: %s: %s", field, msg)
	}

	if c.Site.Dir == "" {
		warn("site.dir", fmt.Sprintf("must not be empty; falling back to %q", defaults.Site.Dir))
		c.Site.Dir = defaults.Site.Dir
	}

	// --- Durations (clamp to sane ranges) ---
	durations := []struct {
		name     string
		val      *int
		min, max int
	}{
		{"playback.variation_duration_ms", &c.Playback.VariationDurationMs, 1000, 600000},
		{"playback.cross_fade_duration_ms", &c.Playback.CrossFadeDurationMs, 100, 30000},
		{"playback.unit_fade_duration_ms", &c.Playback.UnitFadeDurationMs, 100, 30000},
	}
	for _, d := range durations {
		if *d.val < d.min {
			warn(d.name, fmt.Sprintf("must be >= %d, got %d; clamping to %d", d.min, *d.val, d.min))
			*d.val = d.min
		}
		if *d.val > d.max {
			warn(d.name, fmt.Sprintf("must be <= %d, got %d; clamping to %d", d.max, *d.val, d.max))
			*d.val = d.max
		}
	}

	// The cross-fade must fit inside the dwell time, or a transition
	// would still be fading when the next one is due.
	if c.Playback.CrossFadeDurationMs >= c.Playback.VariationDurationMs {
		fixed := c.Playback.VariationDurationMs / 2
		warn("playback.cross_fade_duration_ms", fmt.Sprintf("must be shorter than variation_duration_ms (%d), got %d; clamping to %d",
			c.Playback.VariationDurationMs, c.Playback.CrossFadeDurationMs, fixed))
		c.Playback.CrossFadeDurationMs = fixed
	}

	// --- History size (>= 0; 0 = repeats allowed) ---
	if c.Playback.RecentHistorySize < 0 {
		warn("playback.recent_history_size", fmt.Sprintf("must be >= 0, got %d; falling back to default %d",
			c.Playback.RecentHistorySize, defaults.Playback.RecentHistorySize))
		c.Playback.RecentHistorySize = defaults.Playback.RecentHistorySize
	}

	// --- Debounce (clamp to [0, 2000]) ---
	if c.Playback.DebounceMs < 0 {
		warn("playback.debounce_ms", fmt.Sprintf("must be >= 0, got %d; clamping to 0", c.Playback.DebounceMs))
		c.Playback.DebounceMs = 0
	}
	if c.Playback.DebounceMs > 2000 {
		warn("playback.debounce_ms", fmt.Sprintf("must be <= 2000, got %d; clamping to 2000", c.Playback.DebounceMs))
		c.Playback.DebounceMs = 2000
	}

	// --- FPS (clamp to [5, 60]) ---
	if c.Display.FPS < 5 {
		warn("display.fps", fmt.Sprintf("must be >= 5, got %d; clamping to 5", c.Display.FPS))
		c.Display.FPS = 5
	}
	if c.Display.FPS > 60 {
		warn("display.fps", fmt.Sprintf("must be <= 60, got %d; clamping to 60", c.Display.FPS))
		c.Display.FPS = 60
	}

	return warnings
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables override config file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("VITRINE_SITE_DIR"); v != "" {
		c.Site.Dir = v
	}
	if v := os.Getenv("VITRINE_REDUCED_MOTION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Display.ReducedMotion = b
		}
	}
	if v := os.Getenv("VITRINE_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("VITRINE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.Debug = b
		}
	}
}
