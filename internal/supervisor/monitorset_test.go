package supervisor

import (
	"context"
	"reflect"
	"testing"

	"github.com/papdieo/papdieo/internal/config"
	"github.com/papdieo/papdieo/internal/monitors"
)

type fakeIntrospector struct {
	monitors []string
	err      error
}

func (f fakeIntrospector) Monitors(ctx context.Context) ([]string, error) {
	return f.monitors, f.err
}

func (f fakeIntrospector) Clients(ctx context.Context) ([]monitors.Client, error) {
	return nil, nil
}

func (f fakeIntrospector) ResolveMonitorID(ctx context.Context, name string) (int64, bool, error) {
	return 0, false, nil
}

func TestResolveMonitorSetPriorityOrder(t *testing.T) {
	introspector := fakeIntrospector{monitors: []string{"compositor-a"}}

	// Explicit `monitors` wins over everything else.
	cfg := config.Config{
		Monitors:             []string{"b", "a", "a"},
		MonitorWallpaperDirs:  map[string]string{"z": "/z"},
		Monitor:               "solo",
	}
	got := ResolveMonitorSet(context.Background(), cfg, introspector)
	want := []string{"b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("explicit monitors: got %v, want %v", got, want)
	}

	// monitor_wallpaper_dirs keys, sorted, when Monitors is empty.
	cfg = config.Config{
		MonitorWallpaperDirs: map[string]string{"z": "/z", "a": "/a"},
		Monitor:              "solo",
	}
	got = ResolveMonitorSet(context.Background(), cfg, introspector)
	want = []string{"a", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("monitor_wallpaper_dirs keys: got %v, want %v", got, want)
	}

	// Single `monitor` field when neither of the above is set.
	cfg = config.Config{Monitor: "solo"}
	got = ResolveMonitorSet(context.Background(), cfg, introspector)
	want = []string{"solo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("single monitor: got %v, want %v", got, want)
	}

	// Falls through to the introspector when nothing is configured.
	cfg = config.Config{}
	got = ResolveMonitorSet(context.Background(), cfg, introspector)
	want = []string{"compositor-a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("introspector fallback: got %v, want %v", got, want)
	}
}

func TestResolveMonitorSetIntrospectorErrorYieldsNil(t *testing.T) {
	introspector := fakeIntrospector{err: context.DeadlineExceeded}
	got := ResolveMonitorSet(context.Background(), config.Config{}, introspector)
	if got != nil {
		t.Fatalf("got %v, want nil on introspector error", got)
	}
}
