// Package papdieo wires the CLI surface (spec.md §6) as a cobra root
// command, the way the teacher's api/cmd/helix/root.go assembles its
// subcommands.
package papdieo

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papdieo/papdieo/internal/config"
)

// NewRootCmd assembles the papdieo command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "papdieo",
		Short:         "papdieo",
		Long:          "Wayland wallpaper renderer and rotation supervisor for wlr-layer-shell compositors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to config TOML file (default: $XDG_CONFIG_HOME/papdieo/config.toml)")

	root.AddCommand(newSetCmd())
	root.AddCommand(newRandomCmd())
	root.AddCommand(newNextCmd())
	root.AddCommand(newRotateCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newRunInternalCmd())

	return root
}

// Execute runs the root command and maps any returned error to a non-zero
// exit code (spec.md §6 "Exit codes").
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "papdieo:", err)
		os.Exit(1)
	}
}

// sharedFlags centralizes the --monitor/--fps/--fit flags common to
// set/random/next/rotate.
type sharedFlags struct {
	monitor string
	fps     int
	fit     string
}

func (f *sharedFlags) register(cmd *cobra.Command, includeInterval bool) {
	cmd.Flags().StringVar(&f.monitor, "monitor", "", "target monitor name")
	cmd.Flags().IntVar(&f.fps, "fps", 0, "video FPS target (0 = config default)")
	cmd.Flags().StringVar(&f.fit, "fit", "", "fit mode: stretch|fill|cover|fit|contain (empty = config default)")
}

func resolveFit(cfg config.Config, raw string) (config.FitMode, error) {
	if raw == "" {
		return cfg.FitMode, nil
	}
	return config.ParseFitMode(raw)
}

func resolveFPS(cfg config.Config, raw int) int {
	if raw > 0 {
		return raw
	}
	return cfg.VideoFPS
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}
