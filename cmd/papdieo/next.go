package papdieo

import (
	"github.com/spf13/cobra"

	"github.com/papdieo/papdieo/internal/logging"
	"github.com/papdieo/papdieo/internal/media"
)

func newNextCmd() *cobra.Command {
	flags := &sharedFlags{}
	var dir string
	var detach bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Pick the next wallpaper in sorted order",
		Args:  cobra.NoArgs,
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
			mediaDir := dir
			if mediaDir == "" {
				mediaDir = cfg.DirFor(monitor)
			}

			items, err := media.List(mediaDir)
			if err != nil {
				return err
			}
			chosen := media.NewPicker(lastPickedPath(monitor)).Next(items)

			logging.Setup("cli", "")
			return launchRenderer(chosen.Path, monitor, resolveFPS(cfg, flags.fps), fit, detach)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&dir, "dir", "", "media directory override")
	cmd.Flags().BoolVar(&detach, "detach", false, "run the renderer in the background")
	return cmd
}
