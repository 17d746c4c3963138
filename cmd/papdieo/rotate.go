package papdieo

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papdieo/papdieo/internal/config"
	"github.com/papdieo/papdieo/internal/lockfile"
	"github.com/papdieo/papdieo/internal/logging"
	"github.com/papdieo/papdieo/internal/supervisor"
)

func newRotateCmd() *cobra.Command {
	flags := &sharedFlags{}
	var dir string
	var interval int

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Run the long-lived supervisor that fans renderers out to monitors and rotates wallpapers on a timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup("supervisor", "")

			lockPath := lockfile.DefaultPath()
			lock, err := lockfile.Acquire(lockPath)
			if err != nil {
				return err
			}
			defer lock.Release()

			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.DefaultPath()
			}

			var fit *config.FitMode
			if flags.fit != "" {
				parsed, err := config.ParseFitMode(flags.fit)
				if err != nil {
					return err
				}
				fit = &parsed
			}

			exe, err := os.Executable()
			if err != nil {
				return err
			}

			sup, err := supervisor.New(exe, configPath, supervisor.Overrides{
				Dir:      dir,
				Monitor:  flags.monitor,
				Interval: interval,
				FPS:      flags.fps,
				Fit:      fit,
			})
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return sup.Run(ctx)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&dir, "dir", "", "media directory override")
	cmd.Flags().IntVar(&interval, "interval", 0, "rotation interval in seconds (0 = config default)")
	return cmd
}
