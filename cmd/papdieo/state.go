package papdieo

import (
	"os"
	"path/filepath"
)

// lastPickedPath derives the persisted "last picked" state file used by the
// CLI's random/next commands. Per-monitor when a monitor was named, shared
// otherwise (spec.md §6 "Persisted renderer state").
func lastPickedPath(monitor string) string {
	if monitor == "" {
		return filepath.Join(os.TempDir(), "papdieo-last")
	}
	return filepath.Join(os.TempDir(), "papdieo-last-"+monitor)
}
