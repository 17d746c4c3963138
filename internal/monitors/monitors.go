// Package monitors is the boundary to the compositor-introspection command
// used to enumerate monitors and infer workspace visibility (spec.md §1:
// treated only at its interface, spec.md §4.E/§4.F). The concrete command
// is out of scope for the renderer's core; this package wraps it the way
// the teacher wraps external CLI tools in api/pkg/desktop/exec.go — a thin
// os/exec + JSON decode boundary with every failure swallowed by the
// caller, never panicking the renderer.
package monitors

import (
	"context"
	"encoding/json"
	"os/exec"
	"time"
)

// Client is one compositor-tracked window, the subset §4.E's visibility
// rule needs. Monitor is the compositor's integer monitor id, not its
// name (see ResolveMonitorID) — hyprctl's `clients` query reports windows
// this way, matching original_source/src/wallpaper.rs's query_should_render.
type Client struct {
	Mapped  bool  `json:"mapped"`
	Hidden  bool  `json:"hidden"`
	Monitor int64 `json:"monitor"`
}

// Introspector queries the compositor out-of-band for monitor names and
// window state. Implementations shell out to whatever the running
// compositor exposes (hyprctl, swaymsg, ...).
type Introspector interface {
	// Monitors returns the compositor's current monitor name set.
	Monitors(ctx context.Context) ([]string, error)
	// Clients returns the current client/window list.
	Clients(ctx context.Context) ([]Client, error)
	// ResolveMonitorID resolves a monitor name to the compositor's integer
	// id for that monitor, as Client.Monitor reports it. ok is false when
	// no monitor with that name is currently known.
	ResolveMonitorID(ctx context.Context, name string) (id int64, ok bool, err error)
}

// HyprctlIntrospector shells out to `hyprctl -j`, matching the JSON IPC
// shape the original implementation queried (see original_source/src/picker.rs's
// sibling wallpaper.rs, which this package generalizes into a reusable,
// swappable collaborator instead of inline Command calls).
type HyprctlIntrospector struct {
	Timeout time.Duration
}

// NewHyprctlIntrospector returns an Introspector with a sane default timeout.
func NewHyprctlIntrospector() *HyprctlIntrospector {
	return &HyprctlIntrospector{Timeout: 2 * time.Second}
}

func (h *HyprctlIntrospector) run(ctx context.Context, out any, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "hyprctl", args...)
	b, err := cmd.Output()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (h *HyprctlIntrospector) Monitors(ctx context.Context) ([]string, error) {
	raw, err := h.monitors(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw))
	for _, m := range raw {
		names = append(names, m.Name)
	}
	return names, nil
}

// ResolveMonitorID looks up name's current compositor id, matching
// original_source/src/wallpaper.rs's resolve_monitor_id: a fresh `hyprctl
// -j monitors` query, found by exact name.
func (h *HyprctlIntrospector) ResolveMonitorID(ctx context.Context, name string) (int64, bool, error) {
	raw, err := h.monitors(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, m := range raw {
		if m.Name == name {
			return m.ID, true, nil
		}
	}
	return 0, false, nil
}

// monitorInfo is the subset of `hyprctl -j monitors` this package reads.
type monitorInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *HyprctlIntrospector) monitors(ctx context.Context) ([]monitorInfo, error) {
	var raw []monitorInfo
	if err := h.run(ctx, &raw, "-j", "monitors"); err != nil {
		return nil, err
	}
	return raw, nil
}

func (h *HyprctlIntrospector) Clients(ctx context.Context) ([]Client, error) {
	var clients []Client
	if err := h.run(ctx, &clients, "-j", "clients"); err != nil {
		return nil, err
	}
	return clients, nil
}
