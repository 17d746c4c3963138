// Package renderer wires the shared-memory frame pool, Wayland surface
// manager, image fitter, video pipeline driver, and visibility probe
// together into the single-wallpaper, single-monitor pipeline spec.md §1-2
// describes as the core of the system. It is the renderer process entry
// point invoked by the hidden `run-internal` CLI command.
package renderer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/papdieo/papdieo/internal/config"
	"github.com/papdieo/papdieo/internal/fitimage"
	"github.com/papdieo/papdieo/internal/framepool"
	"github.com/papdieo/papdieo/internal/media"
	"github.com/papdieo/papdieo/internal/monitors"
	"github.com/papdieo/papdieo/internal/pidfile"
	"github.com/papdieo/papdieo/internal/videopipeline"
	"github.com/papdieo/papdieo/internal/visibility"
	"github.com/papdieo/papdieo/internal/waylandsurface"
)

// Options configures a single renderer run (spec.md §6 run-internal).
type Options struct {
	Path    string
	Monitor string
	FPS     int
	Fit     config.FitMode
}

// Run executes the renderer pipeline for one media item until the
// compositor closes the surface (spec.md §4, data flow in §2).
func Run(ctx context.Context, opts Options) error {
	kind, ok := media.KindOf(opts.Path)
	if !ok {
		return fmt.Errorf("unsupported media extension: %s", opts.Path)
	}

	mgr, err := waylandsurface.New(opts.Monitor)
	if err != nil {
		return fmt.Errorf("wayland surface manager: %w", err)
	}
	defer mgr.Close()

	if err := pidfile.Write(opts.Monitor); err != nil {
		log.Debug().Err(err).Msg("write pidfile failed")
	}
	defer pidfile.Remove(opts.Monitor)

	width, height := mgr.Geometry()
	log.Info().Str("path", opts.Path).Int("width", width).Int("height", height).
		Str("kind", kind.String()).Msg("renderer starting")

	pool, err := framepool.New(width, height, mgr.Shm())
	if err != nil {
		return fmt.Errorf("frame pool: %w", err)
	}
	defer pool.Close()

	switch kind {
	case media.KindImage:
		return runImage(mgr, pool, opts)
	default:
		return runVideo(ctx, mgr, pool, opts, width, height)
	}
}

func runImage(mgr *waylandsurface.Manager, pool *framepool.Pool, opts Options) error {
	img, err := fitimage.Decode(opts.Path)
	if err != nil {
		return err
	}
	width, height := mgr.Geometry()
	fitted := fitimage.Fit(img, width, height, opts.Fit)

	if err := pool.WriteRGBA(fitted.Pix); err != nil {
		return fmt.Errorf("write image frame: %w", err)
	}
	pool.AttachAndCommit(mgr.Surface())

	for !mgr.Closed() {
		if err := mgr.BlockingDispatch(); err != nil {
			return fmt.Errorf("wayland dispatch: %w", err)
		}
	}
	return nil
}

func runVideo(ctx context.Context, mgr *waylandsurface.Manager, pool *framepool.Pool, opts Options, width, height int) error {
	introspector := monitors.NewHyprctlIntrospector()
	probe := visibility.New(introspector, opts.Monitor)

	attach := func() { pool.AttachAndCommit(mgr.Surface()) }

	return videopipeline.Run(ctx, opts.Path, width, height, opts.FPS, opts.Fit, pool, attach, mgr, probe)
}
