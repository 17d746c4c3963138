package supervisor

import (
	"context"
	"sort"

	"github.com/papdieo/papdieo/internal/config"
	"github.com/papdieo/papdieo/internal/monitors"
)

// ResolveMonitorSet implements spec.md §4.F step 2's priority order:
// explicit `monitors` list, then the sorted/deduplicated keys of
// `monitor_wallpaper_dirs`, then the single `monitor` field, then whatever
// the compositor currently reports.
func ResolveMonitorSet(ctx context.Context, cfg config.Config, introspector monitors.Introspector) []string {
	if len(cfg.Monitors) > 0 {
		return dedupe(cfg.Monitors)
	}

	if len(cfg.MonitorWallpaperDirs) > 0 {
		names := make([]string, 0, len(cfg.MonitorWallpaperDirs))
		for name := range cfg.MonitorWallpaperDirs {
			names = append(names, name)
		}
		sort.Strings(names)
		return names
	}

	if cfg.Monitor != "" {
		return []string{cfg.Monitor}
	}

	names, err := introspector.Monitors(ctx)
	if err != nil {
		return nil
	}
	return names
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
