// Package visibility implements the Visibility Probe (spec.md §4.E): a
// periodically refreshed boolean answering whether the target output
// currently needs new frames.
package visibility

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/papdieo/papdieo/internal/monitors"
)

// RefreshInterval is the minimum cadence between probe queries (spec.md §3).
const RefreshInterval = 500 * time.Millisecond

// Probe answers ShouldRender() from an atomic boolean, refreshed by
// polling an Introspector on the caller's goroutine. On query failure the previous cached value is
// retained; on first construction it defaults to true if no reading could
// be obtained.
type Probe struct {
	introspector    monitors.Introspector
	targetMonitorID *int64

	shouldRender atomic.Bool
	lastRefresh  time.Time
}

// New constructs a Probe and takes its first reading synchronously.
// targetMonitor is the renderer's requested output name (empty means "any
// monitor", per spec.md §4.E). The name is resolved to the compositor's
// integer monitor id once here, matching
// original_source/src/wallpaper.rs's resolve_monitor_id: Client.Monitor is
// reported by id, not name, so comparing by name would never match.
func New(introspector monitors.Introspector, targetMonitor string) *Probe {
	p := &Probe{introspector: introspector}
	if targetMonitor != "" {
		if id, ok, err := introspector.ResolveMonitorID(context.Background(), targetMonitor); err != nil {
			log.Debug().Err(err).Str("monitor", targetMonitor).Msg("resolve monitor id failed, visibility probe will consider all monitors")
		} else if ok {
			p.targetMonitorID = &id
		}
	}
	p.shouldRender.Store(true)
	p.Refresh(context.Background())
	return p
}

// ShouldRender returns the last-refreshed visibility reading.
func (p *Probe) ShouldRender() bool {
	return p.shouldRender.Load()
}

// RefreshIfDue refreshes the reading if at least RefreshInterval has
// elapsed since the last refresh (spec.md §4.C steady-state loop step 1).
func (p *Probe) RefreshIfDue(ctx context.Context) {
	if time.Since(p.lastRefresh) < RefreshInterval {
		return
	}
	p.Refresh(ctx)
}

// Refresh performs one query regardless of cadence.
func (p *Probe) Refresh(ctx context.Context) {
	p.lastRefresh = time.Now()

	clients, err := p.introspector.Clients(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("visibility probe query failed, retaining cached value")
		return
	}

	hasOccludingClient := false
	for _, c := range clients {
		if !c.Mapped || c.Hidden {
			continue
		}
		if p.targetMonitorID == nil || c.Monitor == *p.targetMonitorID {
			hasOccludingClient = true
			break
		}
	}
	p.shouldRender.Store(!hasOccludingClient)
}
