package videopipeline

import (
	"fmt"
	"strings"

	"github.com/papdieo/papdieo/internal/config"
)

// quotePath escapes a media path for embedding in a gst-launch pipeline
// description's filesrc location=".." property (spec.md §4.C).
func quotePath(path string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(path)
}

func videoscaleOptions(fit config.FitMode) string {
	if fit == config.FitContain {
		return " add-borders=true"
	}
	return ""
}

// BuildLadder returns the ordered fallback ladder of pipeline descriptions
// from spec.md §4.C: NVIDIA H.264, VA-API H.264, Vulkan H.264, then a
// generic software decodebin, all terminating in an appsink named "sink"
// with the normative BGRx caps.
func BuildLadder(path string, width, height, fps int, fit config.FitMode) []string {
	location := quotePath(path)
	scale := videoscaleOptions(fit)
	caps := fmt.Sprintf("video/x-raw,format=BGRx,width=%d,height=%d,framerate=%d/1", width, height, fps)
	sink := "appsink name=sink sync=true max-buffers=1 drop=true"

	return []string{
		fmt.Sprintf(`filesrc location="%s" ! qtdemux ! h264parse ! nvh264dec ! videoconvert ! videoscale%s ! videorate ! %s ! %s`,
			location, scale, caps, sink),
		fmt.Sprintf(`filesrc location="%s" ! qtdemux ! h264parse ! vaapih264dec ! vaapipostproc ! videoscale%s ! videorate ! %s ! %s`,
			location, scale, caps, sink),
		fmt.Sprintf(`filesrc location="%s" ! qtdemux ! h264parse ! vulkanh264dec ! videoconvert ! videoscale%s ! videorate ! %s ! %s`,
			location, scale, caps, sink),
		fmt.Sprintf(`filesrc location="%s" ! decodebin ! videoconvert ! videoscale%s ! videorate ! %s ! %s`,
			location, scale, caps, sink),
	}
}
