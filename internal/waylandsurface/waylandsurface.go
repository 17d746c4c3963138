// Package waylandsurface binds the Wayland globals a background wallpaper
// surface needs and manages the layer-shell surface lifecycle (spec.md
// §4.D). The binding shape (registry callback, handler-struct events,
// roundtrip-then-bind) follows the same idiom demonstrated in the pack's
// ctxmenu wlr-layer-shell client; here it is generalized to multi-output
// selection, a bounded metadata-settling wait, and a background (rather
// than overlay/popup) layer.
package waylandsurface

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	wayland "github.com/neurlang/wayland"
	"github.com/neurlang/wayland/client"
	"github.com/neurlang/wayland/wlr/layershell"
)

const (
	namespace            = "papdieo-wallpaper"
	defaultWidth         = 1920
	defaultHeight        = 1080
	metadataSettleRounds = 6
)

// outputBinding is one bound wl_output global with its lazily-learned
// human-readable metadata. Invariant: at most one binding per global name,
// created during startup and never mutated thereafter except for the
// name/description fields filled in by async events.
type outputBinding struct {
	globalName  uint32
	output      *client.Output
	name        string
	description string
}

// Manager owns the Wayland connection, the bound globals, the selected
// output, and the background layer surface for one renderer process.
type Manager struct {
	conn       *wayland.Conn
	display    *client.Display
	registry   *client.Registry
	compositor *client.Compositor
	shm        *client.Shm
	layerShell *layershell.LayerShellV1

	outputs  []*outputBinding
	selected *outputBinding

	surface      *client.Surface
	layerSurface *layershell.LayerSurfaceV1

	width, height int
	configured    bool

	closed atomic.Bool
}

// New connects to the compositor via the environment, binds the required
// globals, selects requestedMonitor (or the first output when empty),
// creates a background layer surface, and blocks until the first configure
// arrives. See spec.md §4.D steps 1-7.
func New(requestedMonitor string) (*Manager, error) {
	conn, err := wayland.Connect("")
	if err != nil {
		return nil, fmt.Errorf("connect to wayland compositor: %w", err)
	}

	m := &Manager{conn: conn, width: defaultWidth, height: defaultHeight}

	m.display = client.NewDisplay(&client.DisplayHandlers{
		OnError: func(evt wayland.Event) {
			e := evt.(*client.DisplayErrorEvent)
			_ = e // surfaced to the caller via the next dispatch error, not fatal here
		},
	})
	conn.Register(m.display)

	m.compositor = client.NewCompositor(nil)
	m.shm = client.NewShm(nil)
	m.layerShell = layershell.NewLayerShellV1(nil)

	reg := wayland.Registrar{m.compositor, m.shm, m.layerShell}
	m.registry = m.display.GetRegistry(&client.RegistryHandlers{
		OnGlobal: func(evt wayland.Event) {
			e := evt.(*client.RegistryGlobalEvent)
			if e.Interface == "wl_output" {
				m.bindOutput(e.Name, e.Version)
				return
			}
			reg.Handler(evt)
		},
	})

	if err := m.roundtrip(); err != nil {
		return nil, fmt.Errorf("initial wayland roundtrip: %w", err)
	}
	if m.compositor == nil || m.shm == nil || m.layerShell == nil {
		return nil, fmt.Errorf("compositor missing a required global (compositor/shm/wlr-layer-shell)")
	}
	if len(m.outputs) == 0 {
		return nil, fmt.Errorf("no wl_output globals advertised")
	}

	if err := m.settleOutputMetadata(requestedMonitor); err != nil {
		return nil, err
	}

	selected, err := m.selectOutput(requestedMonitor)
	if err != nil {
		return nil, err
	}
	m.selected = selected

	if err := m.createLayerSurface(); err != nil {
		return nil, err
	}

	for !m.configured && !m.closed.Load() {
		if err := m.conn.BlockingDispatch(); err != nil {
			return nil, fmt.Errorf("wayland dispatch before configure: %w", err)
		}
	}
	return m, nil
}

func (m *Manager) bindOutput(globalName uint32, version uint32) {
	if version > 4 {
		version = 4
	}
	ob := &outputBinding{globalName: globalName}
	ob.output = client.NewOutput(&client.OutputHandlers{
		OnName: func(evt wayland.Event) {
			ob.name = evt.(*client.OutputNameEvent).Name
		},
		OnDescription: func(evt wayland.Event) {
			ob.description = evt.(*client.OutputDescriptionEvent).Description
		},
	})
	m.conn.RegisterAt(m.registry, globalName, version, ob.output)
	m.outputs = append(m.outputs, ob)
}

// settleOutputMetadata does one unconditional roundtrip, then up to
// metadataSettleRounds more until the requested output is found or every
// bound output has at least a name or description (spec.md §4.D step 4).
func (m *Manager) settleOutputMetadata(requested string) error {
	if err := m.roundtrip(); err != nil {
		return fmt.Errorf("wayland roundtrip: %w", err)
	}

	for i := 0; i < metadataSettleRounds; i++ {
		if requested != "" && m.findByName(requested) != nil {
			return nil
		}
		if m.allHaveMetadata() {
			return nil
		}
		if err := m.roundtrip(); err != nil {
			return fmt.Errorf("wayland roundtrip: %w", err)
		}
	}
	return nil
}

func (m *Manager) allHaveMetadata() bool {
	for _, ob := range m.outputs {
		if ob.name == "" && ob.description == "" {
			return false
		}
	}
	return true
}

func (m *Manager) findByName(name string) *outputBinding {
	for _, ob := range m.outputs {
		if ob.name == name {
			return ob
		}
	}
	return nil
}

// selectOutput implements spec.md §4.D's output selection policy.
func (m *Manager) selectOutput(requested string) (*outputBinding, error) {
	if requested == "" {
		return m.outputs[0], nil
	}

	for _, ob := range m.outputs {
		if ob.name == requested {
			return ob, nil
		}
	}
	for _, ob := range m.outputs {
		if strings.EqualFold(ob.name, requested) {
			return ob, nil
		}
	}
	lowerReq := strings.ToLower(requested)
	for _, ob := range m.outputs {
		if ob.description != "" && strings.Contains(strings.ToLower(ob.description), lowerReq) {
			return ob, nil
		}
	}

	available := make([]string, 0, len(m.outputs))
	for _, ob := range m.outputs {
		switch {
		case ob.name != "":
			available = append(available, ob.name)
		case ob.description != "":
			available = append(available, "…("+ob.description+")")
		default:
			available = append(available, "(unnamed)")
		}
	}
	return nil, fmt.Errorf("monitor %q not found (available: %s)", requested, strings.Join(available, ", "))
}

func (m *Manager) createLayerSurface() error {
	m.surface = m.compositor.CreateSurface(nil)

	m.layerSurface = m.layerShell.GetLayerSurface(m.surface, m.selected.output, layershell.LayerBackground, namespace,
		&layershell.LayerSurfaceHandlers{
			OnConfigure: func(evt wayland.Event) {
				e := evt.(*layershell.LayerSurfaceConfigureEvent)
				m.layerSurface.AckConfigure(e.Serial)
				if m.configured {
					return
				}
				if e.Width > 0 {
					m.width = int(e.Width)
				}
				if e.Height > 0 {
					m.height = int(e.Height)
				}
				m.configured = true
			},
			OnClosed: func(wayland.Event) {
				m.closed.Store(true)
			},
		})

	m.layerSurface.SetAnchor(layershell.AnchorTop | layershell.AnchorBottom | layershell.AnchorLeft | layershell.AnchorRight)
	m.layerSurface.SetSize(0, 0)
	m.layerSurface.SetExclusiveZone(-1)
	m.surface.Commit()
	return nil
}

func (m *Manager) roundtrip() error {
	done := make(chan struct{})
	callback := m.display.Sync(&client.CallbackHandlers{
		OnDone: func(wayland.Event) { close(done) },
	})
	defer callback.Destroy()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-done:
			return nil
		case <-deadline:
			return fmt.Errorf("timed out waiting for wayland roundtrip")
		default:
			if err := m.conn.BlockingDispatch(); err != nil {
				return err
			}
		}
	}
}

// Geometry returns the output dimensions, frozen after the first configure.
func (m *Manager) Geometry() (int, int) { return m.width, m.height }

// Shm exposes the bound wl_shm global for the frame pool to create a pool from.
func (m *Manager) Shm() *client.Shm { return m.shm }

// Surface exposes the committed wl_surface for the frame pool's
// attach/damage/commit calls.
func (m *Manager) Surface() *client.Surface { return m.surface }

// Closed reports whether the compositor sent the layer surface's closed event.
func (m *Manager) Closed() bool { return m.closed.Load() }

// DispatchPending processes queued events without blocking.
func (m *Manager) DispatchPending() error { return m.conn.DispatchPending() }

// BlockingDispatch blocks until at least one event has been processed. Used
// by the still-image renderer loop, which has nothing else to poll.
func (m *Manager) BlockingDispatch() error { return m.conn.BlockingDispatch() }

// Flush writes any buffered outgoing requests to the socket.
func (m *Manager) Flush() error { return m.conn.Flush() }

// Close tears down the layer surface, surface, and connection.
func (m *Manager) Close() error {
	if m.layerSurface != nil {
		m.layerSurface.Destroy()
	}
	if m.surface != nil {
		m.surface.Destroy()
	}
	return m.conn.Close()
}
