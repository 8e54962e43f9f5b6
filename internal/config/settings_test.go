package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	s := Load()

	if s.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", s.ListenAddr, DefaultListenAddr)
	}
	if s.DownloadDir != DefaultDownloadDir {
		t.Errorf("DownloadDir = %q, want %q", s.DownloadDir, DefaultDownloadDir)
	}
	if s.MaxConcurrent != DefaultMaxConcurrent {
		t.Errorf("MaxConcurrent = %d, want %d", s.MaxConcurrent, DefaultMaxConcurrent)
	}
	if s.YtdlpBinary != DefaultYtdlpBinary {
		t.Errorf("YtdlpBinary = %q, want %q", s.YtdlpBinary, DefaultYtdlpBinary)
	}
	if s.CleanupInterval != DefaultCleanupInterval {
		t.Errorf("CleanupInterval = %v, want %v", s.CleanupInterval, DefaultCleanupInterval)
	}
	if s.RetentionWindow != DefaultRetentionWindow {
		t.Errorf("RetentionWindow = %v, want %v", s.RetentionWindow, DefaultRetentionWindow)
	}
	if s.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", s.LogLevel, DefaultLogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(KeyListenAddr, ":9090")
	t.Setenv(KeyDownloadDir, "/tmp/media")
	t.Setenv(KeyMaxConcurrent, "3")
	t.Setenv(KeyYtdlpBinary, "/usr/local/bin/yt-dlp")
	t.Setenv(KeyCleanupInterval, "30m")
	t.Setenv(KeyRetentionWindow, "48h")
	t.Setenv(KeyLogLevel, "debug")

	s := Load()

	if s.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want %q", s.ListenAddr, ":9090")
	}
	if s.DownloadDir != "/tmp/media" {
		t.Errorf("DownloadDir = %q, want %q", s.DownloadDir, "/tmp/media")
	}
	if s.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", s.MaxConcurrent)
	}
	if s.YtdlpBinary != "/usr/local/bin/yt-dlp" {
		t.Errorf("YtdlpBinary = %q, want %q", s.YtdlpBinary, "/usr/local/bin/yt-dlp")
	}
	if s.CleanupInterval != 30*time.Minute {
		t.Errorf("CleanupInterval = %v, want 30m", s.CleanupInterval)
	}
	if s.RetentionWindow != 48*time.Hour {
		t.Errorf("RetentionWindow = %v, want 48h", s.RetentionWindow)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", s.LogLevel, "debug")
	}
}

func TestConcurrencyClamp(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"below minimum", "0", MinConcurrent},
		{"negative", "-5", MinConcurrent},
		{"above maximum", "50", MaxConcurrent},
		{"within range", "7", 7},
		{"not a number", "many", DefaultMaxConcurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(KeyMaxConcurrent, tt.value)
			if got := Load().MaxConcurrent; got != tt.want {
				t.Errorf("MaxConcurrent = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"unparseable", "soon"},
		{"zero", "0s"},
		{"negative", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(KeyCleanupInterval, tt.value)
			if got := Load().CleanupInterval; got != DefaultCleanupInterval {
				t.Errorf("CleanupInterval = %v, want default %v", got, DefaultCleanupInterval)
			}
		})
	}
}
