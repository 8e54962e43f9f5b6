package model

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadFormat is one of the supported output formats
type DownloadFormat string

const (
	FormatVideo    DownloadFormat = "video"
	FormatAudioMP3 DownloadFormat = "audio_mp3"
	FormatAudioWAV DownloadFormat = "audio_wav"
	FormatMetadata DownloadFormat = "metadata"
)

// DefaultUserID is used when a request carries no user identifier
const DefaultUserID = "anonymous"

// YouTubeDomains are the hosts accepted as download targets
var YouTubeDomains = []string{
	"youtube.com",
	"www.youtube.com",
	"youtu.be",
	"m.youtube.com",
}

// AllowedAdvancedOptions is the allow-list of passthrough option keys.
// Anything else is rejected at validation time, before process launch.
var AllowedAdvancedOptions = []string{"cookies", "proxy", "output_template"}

// DownloadRequest represents a user's request to download a video
type DownloadRequest struct {
	ID               string            `json:"id"`
	URL              string            `json:"url"`
	Format           DownloadFormat    `json:"format"`
	IncludeSubtitles bool              `json:"include_subtitles"`
	AdvancedOptions  map[string]string `json:"advanced_options,omitempty"`
	UserID           string            `json:"user_id"`
	CreatedAt        time.Time         `json:"created_at"`
}

// NewDownloadRequest creates a request with a fresh ID and defaults applied
func NewDownloadRequest(rawURL string, format DownloadFormat) *DownloadRequest {
	return &DownloadRequest{
		ID:        uuid.New().String(),
		URL:       rawURL,
		Format:    format,
		UserID:    DefaultUserID,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the request before it reaches the orchestrator: the URL
// must target a known YouTube host, the format must be one of the fixed set,
// and advanced option keys must be on the allow-list.
func (r *DownloadRequest) Validate() error {
	if err := ValidateVideoURL(r.URL); err != nil {
		return err
	}

	switch r.Format {
	case FormatVideo, FormatAudioMP3, FormatAudioWAV, FormatMetadata:
	default:
		return fmt.Errorf("invalid format: %q", r.Format)
	}

	for key := range r.AdvancedOptions {
		if !isAllowedOption(key) {
			return fmt.Errorf("invalid advanced option: %s", key)
		}
	}

	// The template is joined under the job's output directory later; an
	// absolute or ".."-escaping value would break out of it.
	if tpl, ok := r.AdvancedOptions["output_template"]; ok && tpl != "" {
		if !filepath.IsLocal(tpl) {
			return fmt.Errorf("invalid output_template: must stay within the job directory")
		}
	}

	return nil
}

// ValidateVideoURL checks that a URL points at a supported video host
func ValidateVideoURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("URL must be a valid HTTP/HTTPS URL: %s", rawURL)
	}

	host := strings.ToLower(parsed.Host)
	for _, domain := range YouTubeDomains {
		if host == domain {
			return nil
		}
	}

	return fmt.Errorf("URL must be a valid YouTube URL: %s", rawURL)
}

func isAllowedOption(key string) bool {
	for _, allowed := range AllowedAdvancedOptions {
		if key == allowed {
			return true
		}
	}
	return false
}
