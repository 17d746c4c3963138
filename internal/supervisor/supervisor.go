// Package supervisor implements the per-monitor renderer lifecycle manager
// (spec.md §4.F): it fans renderer processes out to monitors, rotates
// their media on a timer, and reacts to configuration and monitor-set
// changes — a thin orchestrator around the renderer, per spec.md §1.
package supervisor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/papdieo/papdieo/internal/config"
	"github.com/papdieo/papdieo/internal/media"
	"github.com/papdieo/papdieo/internal/monitors"
)

// Overrides holds CLI flag values (rotate's --dir/--monitor/--interval/--fps/
// --fit) that take precedence over the config file on every reload, so a
// hot config edit doesn't silently drop a flag the operator passed at
// startup. A zero value means "no override".
type Overrides struct {
	Dir      string
	Monitor  string
	Interval int
	FPS      int
	Fit      *config.FitMode
}

// Supervisor owns the child-process map and the rotation schedule.
type Supervisor struct {
	exePath      string
	configPath   string
	overrides    Overrides
	introspector monitors.Introspector

	children map[string]*child
	cron     gocron.Scheduler
	job      gocron.Job
}

// New constructs a Supervisor. exePath is the renderer binary to spawn
// (normally os.Executable()); configPath is the TOML file to watch and re-read.
func New(exePath, configPath string, overrides Overrides) (*Supervisor, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Supervisor{
		exePath:      exePath,
		configPath:   configPath,
		overrides:    overrides,
		introspector: monitors.NewHyprctlIntrospector(),
		children:     make(map[string]*child),
		cron:         sched,
	}, nil
}

// applyOverrides layers CLI flags on top of a freshly loaded config.
func (s *Supervisor) applyOverrides(cfg config.Config) config.Config {
	if s.overrides.Dir != "" {
		cfg.WallpaperDir = s.overrides.Dir
	}
	if s.overrides.Monitor != "" {
		cfg.Monitor = s.overrides.Monitor
	}
	if s.overrides.Interval > 0 {
		cfg.DaemonIntervalSeconds = s.overrides.Interval
	}
	if s.overrides.FPS > 0 {
		cfg.VideoFPS = s.overrides.FPS
	}
	if s.overrides.Fit != nil {
		cfg.FitMode = *s.overrides.Fit
	}
	return cfg
}

// Run blocks until ctx is cancelled, fanning renderers out to monitors on
// every rotation tick and whenever the config file changes.
func (s *Supervisor) Run(ctx context.Context) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	cfg = s.applyOverrides(cfg)

	job, err := s.cron.NewJob(
		gocron.DurationJob(time.Duration(cfg.DaemonIntervalSeconds)*time.Second),
		gocron.NewTask(func() { s.tick(ctx) }),
	)
	if err != nil {
		return err
	}
	s.job = job

	// Run the first fan-out immediately rather than waiting a full
	// rotation interval for the scheduler's first fire.
	s.tick(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("config file watcher unavailable, rotation-interval-only reload")
	} else {
		defer watcher.Close()
		dir := filepath.Dir(s.configPath)
		if err := watcher.Add(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("watch config directory failed")
		}
		go s.watchConfig(watcher)
	}

	s.cron.Start()
	defer func() {
		if err := s.cron.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("scheduler shutdown")
		}
		s.reapAll()
	}()

	<-ctx.Done()
	return nil
}

// watchConfig wakes an immediate tick whenever the config file's mtime
// changes, replacing a poll loop with fsnotify events (spec.md §9's
// "interruptible sleep driven by mtime delta", implemented push-based).
func (s *Supervisor) watchConfig(watcher *fsnotify.Watcher) {
	for event := range watcher.Events {
		if filepath.Clean(event.Name) != filepath.Clean(s.configPath) {
			continue
		}
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		if err := s.job.RunNow(); err != nil {
			log.Debug().Err(err).Msg("trigger immediate rotation tick failed")
		}
	}
}

// tick is one iteration of spec.md §4.F's loop: re-read config, resolve the
// monitor set, rotate each monitor's renderer, then prune stale children.
func (s *Supervisor) tick(ctx context.Context) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		log.Error().Err(err).Msg("reload config failed, keeping previous renderers running")
		return
	}
	cfg = s.applyOverrides(cfg)

	target := ResolveMonitorSet(ctx, cfg, s.introspector)
	if len(target) == 0 {
		log.Warn().Msg("no monitors resolved, nothing to render")
		return
	}

	targetSet := make(map[string]bool, len(target))
	for _, name := range target {
		targetSet[name] = true
	}

	for _, name := range target {
		if err := s.rotate(ctx, name, cfg); err != nil {
			log.Error().Err(err).Str("monitor", name).Msg("rotate renderer failed, continuing with other monitors")
		}
	}

	for name, c := range s.children {
		if targetSet[name] {
			continue
		}
		killAndReap(c)
		delete(s.children, name)
	}
}

// spawnRetryAttempts/spawnRetryDelay bound the retries around spawning a
// renderer subprocess, which can fail transiently (e.g. a momentarily
// exhausted process table) without the monitor itself being unusable.
const (
	spawnRetryAttempts = 3
	spawnRetryDelay    = 2 * time.Second
)

func (s *Supervisor) rotate(ctx context.Context, monitor string, cfg config.Config) error {
	if existing, ok := s.children[monitor]; ok {
		killAndReap(existing)
		delete(s.children, monitor)
	}

	dir := cfg.DirFor(monitor)
	items, err := media.List(dir)
	if err != nil {
		return err
	}

	statePath := lastPickedStatePath(monitor)
	picker := media.NewPicker(statePath)
	chosen := picker.Random(items)

	c, err := retry.DoWithData(
		func() (*child, error) { return spawnRenderer(s.exePath, monitor, chosen.Path, cfg.VideoFPS, cfg.FitMode) },
		retry.Attempts(spawnRetryAttempts),
		retry.Delay(spawnRetryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Str("monitor", monitor).Uint("attempt", n).Msg("retrying renderer spawn")
		}),
	)
	if err != nil {
		return err
	}
	s.children[monitor] = c
	return nil
}

func (s *Supervisor) reapAll() {
	for name, c := range s.children {
		killAndReap(c)
		delete(s.children, name)
	}
}

// lastPickedStatePath derives a per-monitor persisted-state file (spec.md
// §13 supplement: independent rotation per monitor must not share one
// "last" cursor), falling back to a single shared file when monitor is
// empty (CLI random/next without --monitor).
func lastPickedStatePath(monitor string) string {
	dir := os.TempDir()
	if monitor == "" {
		return filepath.Join(dir, "papdieo-last")
	}
	return filepath.Join(dir, "papdieo-last-"+monitor)
}
