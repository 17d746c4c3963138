// Package logging sets up zerolog the way the teacher's desktop and cmd
// packages do: pretty console output on a terminal, JSON otherwise, with a
// "component" field distinguishing supervisor logs from per-monitor
// renderer logs.
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global zerolog logger. component is typically
// "supervisor" or "renderer"; monitor is the renderer's target monitor name
// (empty for the supervisor or when no monitor was requested).
func Setup(component, monitor string) {
	var w io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(w).With().Timestamp().Str("component", component)
	if monitor != "" {
		logger = logger.Str("monitor", monitor)
	}
	log.Logger = logger.Logger()
}
