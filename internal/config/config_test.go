package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFitModeRoundTrip(t *testing.T) {
	cases := map[string]FitMode{
		"stretch": FitStretch,
		"fit":     FitContain,
		"contain": FitContain,
		"fill":    FitCover,
		"cover":   FitCover,
	}
	for input, want := range cases {
		got, err := ParseFitMode(input)
		if err != nil {
			t.Fatalf("ParseFitMode(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseFitMode(%q) = %v, want %v", input, got, want)
		}
		if got.String() == "" {
			t.Fatalf("String() empty for %v", got)
		}
	}

	if _, err := ParseFitMode("bogus"); err == nil {
		t.Fatal("expected error for unknown fit mode")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.DaemonIntervalSeconds = want.RotationSeconds
	if cfg.WallpaperDir != want.WallpaperDir || cfg.VideoFPS != want.VideoFPS ||
		cfg.RotationSeconds != want.RotationSeconds || cfg.DaemonIntervalSeconds != want.DaemonIntervalSeconds ||
		cfg.FitMode != want.FitMode {
		t.Fatalf("Load(missing) = %+v, want %+v", cfg, want)
	}
}

func TestLoadMalformedFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestLoadDefaultsDaemonIntervalFromRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("rotation_seconds = 120\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DaemonIntervalSeconds != 120 {
		t.Fatalf("DaemonIntervalSeconds = %d, want 120", cfg.DaemonIntervalSeconds)
	}
}

func TestDirForPerMonitorOverride(t *testing.T) {
	cfg := Config{
		WallpaperDir:         "/default",
		MonitorWallpaperDirs: map[string]string{"DP-1": "/dp1"},
	}
	if got := cfg.DirFor("DP-1"); got != "/dp1" {
		t.Fatalf("DirFor(DP-1) = %q, want /dp1", got)
	}
	if got := cfg.DirFor("HDMI-1"); got != "/default" {
		t.Fatalf("DirFor(HDMI-1) = %q, want /default", got)
	}
}
