package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ytget/ytdlp-server/internal/model"
)

// DefaultBinary is the yt-dlp executable looked up on PATH
const DefaultBinary = "yt-dlp"

// Format selection flags
const (
	VideoFormatSelector = "best[height<=720]"
	AudioFormatSelector = "bestaudio"
	AudioFormatMP3      = "mp3"
	AudioFormatWAV      = "wav"
	OutputTemplate      = "%(title)s.%(ext)s"
)

// How many stderr characters are kept for a failure message
const maxErrorOutput = 512

// ProgressFunc receives normalized progress percentages as they are parsed
type ProgressFunc func(percent int)

// DownloadResult describes the artifact produced by a finished download
type DownloadResult struct {
	FilePath string
	FileSize int64
}

// Runner launches and supervises yt-dlp processes
type Runner struct {
	binary string
	log    *slog.Logger
}

// NewRunner creates a runner invoking the given executable, or yt-dlp from
// PATH when binary is empty
func NewRunner(binary string, log *slog.Logger) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{binary: binary, log: log}
}

// BuildArgs constructs the yt-dlp argument set for a validated request.
// Output is confined to jobDir so concurrently running jobs cannot collide.
// Advanced option keys were already checked against the allow-list at
// validation time; a custom template that would escape jobDir is discarded
// in favor of the default.
func BuildArgs(req *model.DownloadRequest, jobDir string) []string {
	outputTemplate := filepath.Join(jobDir, OutputTemplate)
	if custom, ok := req.AdvancedOptions["output_template"]; ok && custom != "" && filepath.IsLocal(custom) {
		outputTemplate = filepath.Join(jobDir, custom)
	}

	args := []string{"-o", outputTemplate}

	switch req.Format {
	case model.FormatVideo:
		args = append(args, "-f", VideoFormatSelector)
	case model.FormatAudioMP3:
		args = append(args, "-f", AudioFormatSelector, "--extract-audio", "--audio-format", AudioFormatMP3)
	case model.FormatAudioWAV:
		args = append(args, "-f", AudioFormatSelector, "--extract-audio", "--audio-format", AudioFormatWAV)
	case model.FormatMetadata:
		args = append(args, "--write-info-json", "--skip-download")
	}

	if req.IncludeSubtitles {
		args = append(args, "--write-subs", "--sub-langs", "all")
	}

	if cookies, ok := req.AdvancedOptions["cookies"]; ok && cookies != "" {
		args = append(args, "--cookies", cookies)
	}
	if proxy, ok := req.AdvancedOptions["proxy"]; ok && proxy != "" {
		args = append(args, "--proxy", proxy)
	}

	args = append(args, req.URL)
	return args
}

// Run launches yt-dlp for the request, streaming parsed progress updates to
// onProgress, and returns the produced artifact. The process writes into
// jobDir; on a zero exit the first file found there is the artifact, and an
// empty directory is itself a failure. A non-zero exit yields an error
// carrying the tail of stderr. Canceling ctx kills the process.
func (r *Runner) Run(ctx context.Context, req *model.DownloadRequest, jobDir string, onProgress ProgressFunc) (*DownloadResult, error) {
	args := BuildArgs(req, jobDir)
	cmd := exec.CommandContext(ctx, r.binary, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", r.binary, err)
	}

	r.log.Info("download process started", "binary", r.binary, "request_id", req.ID, "format", req.Format)

	// yt-dlp writes progress to stderr with some builds using stdout; both
	// pipes are scanned so a quiet stream never stalls the other. The pipes
	// must be fully drained before Wait.
	var wg sync.WaitGroup
	var tail string
	wg.Add(2)
	go func() {
		defer wg.Done()
		tail = r.scanOutput(stderr, onProgress)
	}()
	go func() {
		defer wg.Done()
		r.scanOutput(stdout, onProgress)
	}()
	wg.Wait()

	waitErr := cmd.Wait()

	if waitErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(tail)
		if msg == "" {
			msg = waitErr.Error()
		}
		return nil, fmt.Errorf("download failed: %s", msg)
	}

	return r.collectArtifact(jobDir)
}

// scanOutput reads an output stream line by line, forwarding matched
// progress lines, and returns the tail of the stream for error reporting
func (r *Runner) scanOutput(stream io.Reader, onProgress ProgressFunc) string {
	var tail strings.Builder

	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		line := scanner.Text()

		if percent, ok := ParseProgressLine(line); ok && onProgress != nil {
			onProgress(percent)
		}

		if tail.Len()+len(line) > maxErrorOutput {
			tail.Reset()
		}
		tail.WriteString(line)
		tail.WriteString("\n")
	}

	return tail.String()
}

// collectArtifact finds the produced file in the job directory
func (r *Runner) collectArtifact(jobDir string) (*DownloadResult, error) {
	entries, err := os.ReadDir(jobDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(jobDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		return &DownloadResult{FilePath: path, FileSize: info.Size()}, nil
	}

	return nil, fmt.Errorf("no output produced")
}
