package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/ytget/ytdlp-server/internal/model"
)

// DefaultMetadataTimeout bounds the synchronous metadata extraction call
const DefaultMetadataTimeout = 60 * time.Second

// Default values for fields the tool did not report
const (
	DefaultTitle    = "Unknown Title"
	DefaultUploader = "Unknown Uploader"
)

// ExtractMetadata runs yt-dlp in dump-info mode for url and maps the
// structured output into a metadata record. Missing fields take defaults;
// a non-zero exit or unparseable output is a hard failure surfaced to the
// caller.
func (r *Runner) ExtractMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultMetadataTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, "--dump-json", "--no-download", url)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("yt-dlp failed: %s", msg)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse metadata output: %w", err)
	}

	meta := &model.VideoMetadata{
		URL:                url,
		Title:              stringField(raw, "title", DefaultTitle),
		Duration:           floatField(raw, "duration"),
		ThumbnailURL:       stringField(raw, "thumbnail", ""),
		Description:        stringField(raw, "description", ""),
		Uploader:           stringField(raw, "uploader", DefaultUploader),
		ViewCount:          int64(floatField(raw, "view_count")),
		UploadDate:         stringField(raw, "upload_date", ""),
		AvailableFormats:   extractFormats(raw),
		AvailableSubtitles: extractSubtitles(raw),
		ExtractedAt:        time.Now().UTC(),
	}
	return meta, nil
}

func stringField(raw map[string]interface{}, key, fallback string) string {
	if value, ok := raw[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func floatField(raw map[string]interface{}, key string) float64 {
	if value, ok := raw[key].(float64); ok {
		return value
	}
	return 0
}

// extractFormats collects format labels, preferring format_note and falling
// back to the container extension, deduplicated
func extractFormats(raw map[string]interface{}) []string {
	entries, ok := raw["formats"].([]interface{})
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		format, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		label := stringField(format, "format_note", "")
		if label == "" {
			label = stringField(format, "ext", "")
		}
		if label != "" {
			seen[label] = struct{}{}
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// extractSubtitles collects the available subtitle language codes
func extractSubtitles(raw map[string]interface{}) []string {
	subtitles, ok := raw["subtitles"].(map[string]interface{})
	if !ok {
		return []string{}
	}

	langs := make([]string, 0, len(subtitles))
	for lang := range subtitles {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
