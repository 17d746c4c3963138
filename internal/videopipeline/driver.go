// Package videopipeline implements the Video Pipeline Driver (spec.md
// §4.C): it builds and runs a decode -> convert -> scale -> rate -> sink
// graph via go-gst, walking a fallback ladder of decoder backends, looping
// on EOS, restarting on error, and pausing when the Visibility Probe says
// nothing would see the frames anyway.
//
// The pull-based steady-state loop and bus-draining idiom follow the
// teacher's api/pkg/desktop/gst_pipeline.go (pipeline-from-string,
// appsink-by-name, TimedPop bus polling for Error/EOS), generalized from
// its async NewSampleFunc callback to synchronous pulls so the loop can
// interleave Wayland dispatch and visibility refreshes on a single thread.
package videopipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-gst/go-gst/gst"
	"github.com/go-gst/go-gst/gst/app"
	"github.com/go-gst/go-gst/gst/video"
	"github.com/rs/zerolog/log"

	"github.com/papdieo/papdieo/internal/config"
	"github.com/papdieo/papdieo/internal/framepool"
	"github.com/papdieo/papdieo/internal/visibility"
)

var gstInitOnce sync.Once

func initGStreamer() {
	gstInitOnce.Do(func() {
		gst.Init(nil)
	})
}

const (
	initialSampleTimeout = 2 * time.Second
	pausedSleep          = 120 * time.Millisecond
	minFrameTimeoutMs    = 4
)

// SurfaceEvents is the subset of waylandsurface.Manager the driver needs to
// interleave Wayland dispatch with pipeline pulls and learn the closed flag.
type SurfaceEvents interface {
	DispatchPending() error
	Flush() error
	Closed() bool
}

// Run walks the fallback ladder, playing whichever descriptor first
// produces a frame, looping playback via EOS-restart until the surface
// closes or every descriptor is exhausted. See spec.md §4.C "Termination".
func Run(ctx context.Context, path string, width, height, fps int, fit config.FitMode,
	pool *framepool.Pool, surfaceAttach func(), events SurfaceEvents, probe *visibility.Probe) error {
	initGStreamer()

	frameTimeoutMs := 1000 / fps
	if frameTimeoutMs < minFrameTimeoutMs {
		frameTimeoutMs = minFrameTimeoutMs
	}

	ladder := BuildLadder(path, width, height, fps, fit)

	var lastErr error
	for i, desc := range ladder {
		if events.Closed() {
			return nil
		}
		err := runAttempt(ctx, desc, width, height, time.Duration(frameTimeoutMs)*time.Millisecond,
			pool, surfaceAttach, events, probe)
		if err == nil {
			return nil
		}
		if events.Closed() {
			return nil
		}
		log.Warn().Err(err).Int("ladder_index", i).Str("descriptor_kind", descriptorKind(i)).Msg("video pipeline attempt failed, trying next decoder")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no decoder backend available")
	}
	return fmt.Errorf("video decoder ladder exhausted, install GStreamer codec plugins (gst-plugins-good, gst-plugins-bad, gst-plugins-ugly, gst-libav): %w", lastErr)
}

func descriptorKind(i int) string {
	switch i {
	case 0:
		return "nvidia-h264"
	case 1:
		return "vaapi-h264"
	case 2:
		return "vulkan-h264"
	default:
		return "software"
	}
}

// runAttempt implements spec.md §4.C's per-attempt protocol and
// steady-state loop for one pipeline descriptor.
func runAttempt(ctx context.Context, desc string, width, height int, frameTimeout time.Duration,
	pool *framepool.Pool, surfaceAttach func(), events SurfaceEvents, probe *visibility.Probe) error {

	pipeline, sink, err := buildPipeline(desc)
	if err != nil {
		return err
	}
	defer pipeline.SetState(gst.StateNull)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("set pipeline playing: %w", err)
	}

	sample := sink.TryPullSample(gst.ClockTime(initialSampleTimeout))
	if sample == nil {
		pipeline.SetState(gst.StateNull)
		return fmt.Errorf("no initial video frame within %s", initialSampleTimeout)
	}
	if err := renderSample(sample, width, height, pool, surfaceAttach); err != nil {
		return err
	}

	bus := pipeline.GetPipelineBus()
	isPaused := false

	for !events.Closed() {
		if probe != nil {
			probe.RefreshIfDue(ctx)
		}

		shouldRender := true
		if probe != nil {
			shouldRender = probe.ShouldRender()
		}

		if shouldRender && isPaused {
			pipeline.SetState(gst.StatePlaying)
			isPaused = false
		} else if !shouldRender && !isPaused {
			pipeline.SetState(gst.StatePaused)
			isPaused = true
		}

		if shouldRender {
			if s := sink.TryPullSample(gst.ClockTime(frameTimeout)); s != nil {
				if err := renderSample(s, width, height, pool, surfaceAttach); err != nil {
					return err
				}
			}
		} else {
			time.Sleep(pausedSleep)
		}

		if msg := bus.TimedPop(0); msg != nil {
			switch msg.Type() {
			case gst.MessageError:
				pipeline.SetState(gst.StateNull)
				if gerr := msg.ParseError(); gerr != nil {
					return fmt.Errorf("pipeline bus error: %w", gerr)
				}
				return fmt.Errorf("pipeline bus error")
			case gst.MessageEOS:
				pipeline.SeekSimple(gst.FormatTime, gst.SeekFlagFlush|gst.SeekFlagKeyUnit, 0)
			}
		}

		if err := events.DispatchPending(); err != nil {
			return fmt.Errorf("wayland dispatch: %w", err)
		}
		events.Flush()
	}

	return nil
}

func buildPipeline(desc string) (*gst.Pipeline, *app.Sink, error) {
	elem, err := gst.NewPipelineFromString(desc)
	if err != nil {
		return nil, nil, fmt.Errorf("build pipeline: %w", err)
	}
	pipeline, ok := elem.(*gst.Pipeline)
	if !ok {
		return nil, nil, fmt.Errorf("parsed element is not a pipeline")
	}

	sinkElem, err := pipeline.GetElementByName("sink")
	if err != nil {
		pipeline.SetState(gst.StateNull)
		return nil, nil, fmt.Errorf("locate appsink: %w", err)
	}
	sink := app.SinkFromElement(sinkElem)
	if sink == nil {
		pipeline.SetState(gst.StateNull)
		return nil, nil, fmt.Errorf("sink element is not an appsink")
	}
	return pipeline, sink, nil
}

func renderSample(sample *gst.Sample, width, height int, pool *framepool.Pool, surfaceAttach func()) error {
	buffer := sample.GetBuffer()
	if buffer == nil {
		return nil
	}
	mapInfo := buffer.Map(gst.MapRead)
	if mapInfo == nil {
		return fmt.Errorf("map video buffer")
	}
	defer buffer.Unmap()

	srcStride := width * 4
	if info, err := videoInfoFromCaps(sample); err == nil && info > 0 {
		srcStride = info
	}

	if err := pool.WriteVideoBGRx(mapInfo.Bytes(), srcStride, width, height); err != nil {
		return fmt.Errorf("write video frame: %w", err)
	}
	surfaceAttach()
	return nil
}

// videoInfoFromCaps extracts the negotiated row stride from the sample's
// caps, which may exceed width*4 due to decoder alignment requirements
// (spec.md §4.A write_video_bgrx).
func videoInfoFromCaps(sample *gst.Sample) (int, error) {
	caps := sample.GetCaps()
	if caps == nil {
		return 0, fmt.Errorf("sample has no caps")
	}
	info := video.InfoFromCaps(caps)
	if info == nil {
		return 0, fmt.Errorf("caps are not video caps")
	}
	return info.Stride(0), nil
}
