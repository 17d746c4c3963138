package papdieo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/papdieo/papdieo/internal/config"
	"github.com/papdieo/papdieo/internal/renderer"
)

// detachWaitWindow is how long launchRenderer waits before declaring a
// detached renderer child alive (spec.md §6 "--detach ... waits ~4 s").
const detachWaitWindow = 4 * time.Second

// launchRenderer runs the renderer in-process, or spawns a detached child
// running the hidden run-internal subcommand and waits briefly to catch an
// early failure (spec.md §6).
func launchRenderer(path, monitor string, fps int, fit config.FitMode, detach bool) error {
	if !detach {
		return renderer.Run(context.Background(), renderer.Options{
			Path: path, Monitor: monitor, FPS: fps, Fit: fit,
		})
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve own executable path: %w", err)
	}

	args := []string{"run-internal", path}
	if monitor != "" {
		args = append(args, "--monitor", monitor)
	}
	args = append(args, "--fps", fmt.Sprintf("%d", fps), "--fit", fit.String())

	logPath := filepath.Join(os.TempDir(), "papdieo.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open renderer log %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn detached renderer: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		cmd.Wait()
		close(exited)
	}()

	select {
	case <-exited:
		return fmt.Errorf("wallpaper renderer exited early, see %s", logPath)
	case <-time.After(detachWaitWindow):
	}

	fmt.Printf("started wallpaper renderer in background (pid: %d, log: %s)\n", cmd.Process.Pid, logPath)
	return nil
}
