// Package config loads papdieo's TOML configuration file the way the
// teacher loads env-sourced config in api/pkg/config: a struct with
// defaulted fields, one loader function, errors wrapped with context.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config mirrors the table in spec.md §6.
type Config struct {
	WallpaperDir          string            `toml:"wallpaper_dir"`
	MonitorWallpaperDirs  map[string]string `toml:"monitor_wallpaper_dirs"`
	Monitor               string            `toml:"monitor"`
	Monitors              []string          `toml:"monitors"`
	VideoFPS              int               `toml:"video_fps"`
	RotationSeconds       int               `toml:"rotation_seconds"`
	DaemonIntervalSeconds int               `toml:"daemon_interval_seconds"`
	FitMode               FitMode           `toml:"fit_mode"`
}

// Default returns the hard-coded defaults from spec.md §6, resolving
// wallpaper_dir relative to $HOME.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		WallpaperDir:          filepath.Join(home, "Pictures", "Wallpapers"),
		VideoFPS:              60,
		RotationSeconds:       300,
		DaemonIntervalSeconds: 0, // 0 means "use RotationSeconds", resolved in Load
		FitMode:               FitCover,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/papdieo/config.toml, falling back to
// $HOME/.config/papdieo/config.toml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "papdieo", "config.toml")
}

// Load reads and parses the TOML file at path, applying Default() for any
// field TOML left zero. A missing file is not an error and yields Default()
// with the same fallbacks applied (DaemonIntervalSeconds = RotationSeconds).
// A malformed file is fatal per spec.md §7.i.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := toml.Unmarshal(b, &cfg); err != nil {
		// Decoded over the defaults so unset keys keep their default value.
		return Config{}, fmt.Errorf("parse TOML config %s: %w", path, err)
	}

	if cfg.DaemonIntervalSeconds == 0 {
		cfg.DaemonIntervalSeconds = cfg.RotationSeconds
	}
	if cfg.RotationSeconds < 1 {
		cfg.RotationSeconds = 1
	}
	if cfg.DaemonIntervalSeconds < 1 {
		cfg.DaemonIntervalSeconds = 1
	}
	if cfg.VideoFPS < 1 {
		cfg.VideoFPS = 60
	}
	return cfg, nil
}

// FitFor resolves the effective fit mode for a monitor: a per-call override
// wins, otherwise the config default.
func (c Config) FitFor(override *FitMode) FitMode {
	if override != nil {
		return *override
	}
	return c.FitMode
}

// DirFor resolves the media directory for a monitor: monitor_wallpaper_dirs
// overrides wallpaper_dir when the monitor name has an entry.
func (c Config) DirFor(monitor string) string {
	if dir, ok := c.MonitorWallpaperDirs[monitor]; ok && dir != "" {
		return dir
	}
	return c.WallpaperDir
}
