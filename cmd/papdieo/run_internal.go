package papdieo

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papdieo/papdieo/internal/logging"
	"github.com/papdieo/papdieo/internal/renderer"
)

// newRunInternalCmd is the renderer entry point invoked by spawned children
// (the CLI's --detach path and the supervisor's spawnRenderer); not a public
// contract, hence hidden from help output.
func newRunInternalCmd() *cobra.Command {
	flags := &sharedFlags{}

	cmd := &cobra.Command{
		Use:    "run-internal <path>",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fit, err := resolveFit(cfg, flags.fit)
			if err != nil {
				return err
			}
			monitor := flags.monitor
			if monitor == "" {
				monitor = cfg.Monitor
			}

			logging.Setup("renderer", monitor)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return renderer.Run(ctx, renderer.Options{
				Path:    args[0],
				Monitor: monitor,
				FPS:     resolveFPS(cfg, flags.fps),
				Fit:     fit,
			})
		},
	}

	flags.register(cmd, false)
	return cmd
}
