package model

import (
	"fmt"
	"time"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// View count thresholds for human-readable formatting
const (
	MillionViews  = 1_000_000
	ThousandViews = 1_000
)

// UploadDateLayout is the date layout yt-dlp reports upload dates in
const UploadDateLayout = "20060102"

// VideoMetadata contains video information extracted without downloading
type VideoMetadata struct {
	URL                string    `json:"url"`
	Title              string    `json:"title"`
	Duration           float64   `json:"duration"` // seconds
	ThumbnailURL       string    `json:"thumbnail_url"`
	Description        string    `json:"description,omitempty"`
	Uploader           string    `json:"uploader"`
	ViewCount          int64     `json:"view_count"`
	UploadDate         string    `json:"upload_date"` // YYYYMMDD
	AvailableFormats   []string  `json:"available_formats"`
	AvailableSubtitles []string  `json:"available_subtitles"`
	ExtractedAt        time.Time `json:"extracted_at"`
}

// DurationFormatted returns the duration as hh:mm:ss, or mm:ss when under
// an hour
func (m *VideoMetadata) DurationFormatted() string {
	total := int(m.Duration)
	hours := total / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	seconds := total % SecondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ViewCountFormatted returns the view count as a compact string (1.2M, 3.4K)
func (m *VideoMetadata) ViewCountFormatted() string {
	switch {
	case m.ViewCount >= MillionViews:
		return fmt.Sprintf("%.1fM", float64(m.ViewCount)/MillionViews)
	case m.ViewCount >= ThousandViews:
		return fmt.Sprintf("%.1fK", float64(m.ViewCount)/ThousandViews)
	default:
		return fmt.Sprintf("%d", m.ViewCount)
	}
}

// UploadDateFormatted returns the upload date as a readable string, or the
// raw value when it is not in the expected layout
func (m *VideoMetadata) UploadDateFormatted() string {
	parsed, err := time.Parse(UploadDateLayout, m.UploadDate)
	if err != nil {
		return m.UploadDate
	}
	return parsed.Format("January 2, 2006")
}

// HasSubtitles returns true if any subtitle language is available
func (m *VideoMetadata) HasSubtitles() bool {
	return len(m.AvailableSubtitles) > 0
}
