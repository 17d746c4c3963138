package visibility

import (
	"context"
	"testing"

	"github.com/papdieo/papdieo/internal/monitors"
)

type fakeIntrospector struct {
	clients   []monitors.Client
	clientErr error
	ids       map[string]int64
}

func (f fakeIntrospector) Monitors(ctx context.Context) ([]string, error) { return nil, nil }

func (f fakeIntrospector) Clients(ctx context.Context) ([]monitors.Client, error) {
	return f.clients, f.clientErr
}

func (f fakeIntrospector) ResolveMonitorID(ctx context.Context, name string) (int64, bool, error) {
	id, ok := f.ids[name]
	return id, ok, nil
}

func TestRefreshPausesWhenOccludingClientOnTargetMonitor(t *testing.T) {
	introspector := fakeIntrospector{
		clients: []monitors.Client{{Mapped: true, Hidden: false, Monitor: 1}},
		ids:     map[string]int64{"DP-1": 1},
	}
	p := New(introspector, "DP-1")
	if p.ShouldRender() {
		t.Fatal("expected ShouldRender() == false with a mapped, visible client on the target monitor")
	}
}

func TestRefreshIgnoresHiddenOrUnmappedClients(t *testing.T) {
	introspector := fakeIntrospector{
		clients: []monitors.Client{
			{Mapped: false, Hidden: false, Monitor: 1},
			{Mapped: true, Hidden: true, Monitor: 1},
		},
		ids: map[string]int64{"DP-1": 1},
	}
	p := New(introspector, "DP-1")
	if !p.ShouldRender() {
		t.Fatal("expected ShouldRender() == true: no mapped-and-visible client occludes")
	}
}

func TestRefreshIgnoresClientsOnOtherMonitors(t *testing.T) {
	introspector := fakeIntrospector{
		clients: []monitors.Client{{Mapped: true, Hidden: false, Monitor: 2}},
		ids:     map[string]int64{"DP-1": 1, "HDMI-1": 2},
	}
	p := New(introspector, "DP-1")
	if !p.ShouldRender() {
		t.Fatal("expected ShouldRender() == true: occluding client is on a different monitor")
	}
}

func TestRefreshConsidersAnyMonitorWhenNoneRequested(t *testing.T) {
	introspector := fakeIntrospector{
		clients: []monitors.Client{{Mapped: true, Hidden: false, Monitor: 7}},
	}
	p := New(introspector, "")
	if p.ShouldRender() {
		t.Fatal("expected ShouldRender() == false: no target monitor means any occluding client counts")
	}
}

func TestRefreshRetainsCachedValueOnQueryError(t *testing.T) {
	introspector := fakeIntrospector{clientErr: context.DeadlineExceeded}
	p := New(introspector, "")
	// Construction defaults to true and the query failed, so it stays true.
	if !p.ShouldRender() {
		t.Fatal("expected cached default true retained after query error")
	}
}

func TestRefreshIfDueRespectsCadence(t *testing.T) {
	calls := 0
	introspector := countingIntrospector{&calls}
	p := New(introspector, "")
	before := calls

	p.RefreshIfDue(context.Background())
	if calls != before {
		t.Fatalf("RefreshIfDue queried again immediately after construction: calls=%d, before=%d", calls, before)
	}
}

type countingIntrospector struct {
	calls *int
}

func (c countingIntrospector) Monitors(ctx context.Context) ([]string, error) { return nil, nil }
func (c countingIntrospector) Clients(ctx context.Context) ([]monitors.Client, error) {
	*c.calls++
	return nil, nil
}
func (c countingIntrospector) ResolveMonitorID(ctx context.Context, name string) (int64, bool, error) {
	return 0, false, nil
}
