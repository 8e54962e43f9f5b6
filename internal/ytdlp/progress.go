package ytdlp

import (
	"strconv"
	"strings"
)

// Progress line markers. yt-dlp emits human-readable lines like
// "[download]  42.3% of 10.00MiB at 1.2MiB/s ETA 00:05"; a line counts as a
// progress line when it carries both a percent token and an ETA marker.
const (
	PercentSuffix = "%"
	ETAMarker     = "ETA"
)

// ParseProgressLine applies the progress heuristic to one raw output line.
// It returns the integer percentage clamped to 0..100 and true when the
// line matched. Lines that do not match are ignored by callers, not treated
// as errors; the heuristic may miss or duplicate updates and downstream
// state handling must tolerate that.
func ParseProgressLine(line string) (int, bool) {
	if !strings.Contains(line, ETAMarker) {
		return 0, false
	}

	for _, token := range strings.Fields(line) {
		if !strings.HasSuffix(token, PercentSuffix) {
			continue
		}

		raw := strings.TrimSuffix(token, PercentSuffix)
		// yt-dlp reports fractional percentages; keep the integer part.
		if dot := strings.IndexByte(raw, '.'); dot >= 0 {
			raw = raw[:dot]
		}

		percent, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		return percent, true
	}

	return 0, false
}
