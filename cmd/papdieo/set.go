package papdieo

import (
	"github.com/spf13/cobra"

	"github.com/papdieo/papdieo/internal/logging"
)

func newSetCmd() *cobra.Command {
	flags := &sharedFlags{}
	var detach bool

	cmd := &cobra.Command{
		Use:   "set <path>",
		Short: "Set a specific wallpaper",
		Args:  cobra.ExactArgs(1),
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

			logging.Setup("cli", "")
			return launchRenderer(args[0], monitor, resolveFPS(cfg, flags.fps), fit, detach)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&detach, "detach", false, "run the renderer in the background")
	return cmd
}
