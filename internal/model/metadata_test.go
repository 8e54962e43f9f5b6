package model

import "testing"

func TestVideoMetadata_DurationFormatted(t *testing.T) {
	tests := []struct {
		duration float64
		expected string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{75, "01:15"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
	}

	for _, test := range tests {
		meta := &VideoMetadata{Duration: test.duration}
		result := meta.DurationFormatted()
		if result != test.expected {
			t.Errorf("DurationFormatted(%v) = %s, expected %s", test.duration, result, test.expected)
		}
	}
}

func TestVideoMetadata_ViewCountFormatted(t *testing.T) {
	tests := []struct {
		views    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5K"},
		{2_500_000, "2.5M"},
	}

	for _, test := range tests {
		meta := &VideoMetadata{ViewCount: test.views}
		result := meta.ViewCountFormatted()
		if result != test.expected {
			t.Errorf("ViewCountFormatted(%d) = %s, expected %s", test.views, result, test.expected)
		}
	}
}

func TestVideoMetadata_UploadDateFormatted(t *testing.T) {
	meta := &VideoMetadata{UploadDate: "20240115"}
	if got := meta.UploadDateFormatted(); got != "January 15, 2024" {
		t.Errorf("expected 'January 15, 2024', got '%s'", got)
	}

	meta.UploadDate = "not-a-date"
	if got := meta.UploadDateFormatted(); got != "not-a-date" {
		t.Errorf("expected raw value back, got '%s'", got)
	}
}

func TestVideoMetadata_HasSubtitles(t *testing.T) {
	meta := &VideoMetadata{}
	if meta.HasSubtitles() {
		t.Error("expected no subtitles")
	}

	meta.AvailableSubtitles = []string{"en", "de"}
	if !meta.HasSubtitles() {
		t.Error("expected subtitles present")
	}
}
