package videopipeline

import (
	"strings"
	"testing"

	"github.com/papdieo/papdieo/internal/config"
)

func TestBuildLadderOrderAndCaps(t *testing.T) {
	descriptors := BuildLadder("/tmp/a.mp4", 1920, 1080, 30, config.FitCover)
	if len(descriptors) != 4 {
		t.Fatalf("got %d descriptors, want 4", len(descriptors))
	}

	wantDecoders := []string{"nvh264dec", "vaapih264dec", "vulkanh264dec", "decodebin"}
	for i, want := range wantDecoders {
		if !strings.Contains(descriptors[i], want) {
			t.Errorf("descriptor %d = %q, want it to contain %q", i, descriptors[i], want)
		}
	}

	wantCaps := "video/x-raw,format=BGRx,width=1920,height=1080,framerate=30/1"
	for i, d := range descriptors {
		if !strings.Contains(d, wantCaps) {
			t.Errorf("descriptor %d missing caps %q: %s", i, wantCaps, d)
		}
		if !strings.Contains(d, `appsink name=sink sync=true max-buffers=1 drop=true`) {
			t.Errorf("descriptor %d missing terminal appsink: %s", i, d)
		}
	}
}

func TestVideoscaleOptionsOnlyAddsBordersForContain(t *testing.T) {
	if got := videoscaleOptions(config.FitContain); got != " add-borders=true" {
		t.Fatalf("FitContain: got %q", got)
	}
	for _, mode := range []config.FitMode{config.FitStretch, config.FitCover} {
		if got := videoscaleOptions(mode); got != "" {
			t.Fatalf("mode %v: got %q, want empty", mode, got)
		}
	}
}

func TestQuotePathEscapesBackslashAndQuote(t *testing.T) {
	got := quotePath(`C:\wallpapers\a "b".mp4`)
	want := `C:\\wallpapers\\a \"b\".mp4`
	if got != want {
		t.Fatalf("quotePath = %q, want %q", got, want)
	}
}
