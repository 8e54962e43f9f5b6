package ytdlp

import "testing"

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		percent int
		matched bool
	}{
		{
			name:    "typical download line",
			line:    "[download]  42.3% of 10.00MiB at 1.21MiB/s ETA 00:05",
			percent: 42,
			matched: true,
		},
		{
			name:    "integer percentage",
			line:    "[download] 7% of ~3.50MiB at 512.00KiB/s ETA 01:12",
			percent: 7,
			matched: true,
		},
		{
			name:    "hundred percent with eta",
			line:    "[download] 100.0% of 10.00MiB at 2.00MiB/s ETA 00:00",
			percent: 100,
			matched: true,
		},
		{
			name:    "percent without eta marker",
			line:    "[download] 100% of 10.00MiB in 00:08",
			matched: false,
		},
		{
			name:    "eta without percent token",
			line:    "[download] Unknown size, ETA 00:30",
			matched: false,
		},
		{
			name:    "unrelated output",
			line:    "[info] Writing video subtitles to: video.en.vtt",
			matched: false,
		},
		{
			name:    "empty line",
			line:    "",
			matched: false,
		},
		{
			name:    "non-numeric percent token",
			line:    "[download] N/A% at 1MiB/s ETA 00:05",
			matched: false,
		},
		{
			name:    "over hundred clamps",
			line:    "[download] 150% of 10MiB ETA 00:01",
			percent: 100,
			matched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			percent, matched := ParseProgressLine(tt.line)
			if matched != tt.matched {
				t.Fatalf("ParseProgressLine(%q) matched = %v, expected %v", tt.line, matched, tt.matched)
			}
			if matched && percent != tt.percent {
				t.Errorf("ParseProgressLine(%q) = %d, expected %d", tt.line, percent, tt.percent)
			}
		})
	}
}
