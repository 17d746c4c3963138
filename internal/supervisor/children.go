package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/papdieo/papdieo/internal/config"
)

// child tracks one renderer subprocess, keyed by monitor name (spec.md §3
// "Per-monitor supervisor state"): at most one live child per name.
type child struct {
	monitor string
	path    string
	cmd     *exec.Cmd
	logFile *os.File
}

// spawnRenderer execs self with the hidden run-internal subcommand,
// matching the teacher's subprocess-spawn idiom in api/pkg/desktop/exec.go
// (plain exec.Command, no stdin, stdout/stderr redirected to a log file).
func spawnRenderer(exe, monitor, path string, fps int, fit config.FitMode) (*child, error) {
	args := []string{"run-internal", path}
	if monitor != "" {
		args = append(args, "--monitor", monitor)
	}
	args = append(args, "--fps", fmt.Sprintf("%d", fps), "--fit", fit.String())

	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil
	logPath := filepath.Join(os.TempDir(), fmt.Sprintf("papdieo-%s.log", safeName(monitor)))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open renderer log %s: %w", logPath, err)
	}
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("spawn renderer for %s: %w", monitor, err)
	}

	log.Info().Str("monitor", monitor).Str("path", path).Int("pid", cmd.Process.Pid).Msg("spawned renderer")
	return &child{monitor: monitor, path: path, cmd: cmd, logFile: logFile}, nil
}

func safeName(monitor string) string {
	if monitor == "" {
		return "default"
	}
	return monitor
}

// killAndReap sends SIGKILL, waits for exit, and closes the child's log
// file (spec.md §5 "Cancellation").
func killAndReap(c *child) {
	if c == nil {
		return
	}
	if c.logFile != nil {
		defer c.logFile.Close()
	}
	if c.cmd == nil || c.cmd.Process == nil {
		return
	}
	if err := c.cmd.Process.Kill(); err != nil {
		log.Debug().Err(err).Str("monitor", c.monitor).Msg("kill renderer child failed (may have already exited)")
	}
	_ = c.cmd.Wait()
}
