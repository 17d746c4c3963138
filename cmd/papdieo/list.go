package papdieo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papdieo/papdieo/internal/media"
	"github.com/papdieo/papdieo/internal/pidfile"
)

func newListCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered wallpapers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			mediaDir := dir
			if mediaDir == "" {
				mediaDir = cfg.WallpaperDir
			}

			items, err := media.List(mediaDir)
			if err != nil {
				return err
			}

			running := pidfile.List()
			for _, it := range items {
				fmt.Println(it.Path, runningSuffix(it.Path, running))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "media directory override")
	return cmd
}

// runningSuffix annotates a listed path with the monitor/PID of whichever
// renderer currently has it as its last pick, supplementing spec.md's
// `list` with the per-monitor running renderer info original_source's
// cli.rs printed (SPEC_FULL.md §13).
func runningSuffix(path string, running []pidfile.Entry) string {
	for _, e := range running {
		monitor := e.Monitor
		if monitor == "default" {
			monitor = ""
		}
		last, ok := media.NewPicker(lastPickedPath(monitor)).PeekLast()
		if ok && last == path {
			return fmt.Sprintf("(running on %s, pid %d)", e.Monitor, e.PID)
		}
	}
	return ""
}
