// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable keys
const (
	KeyListenAddr      = "LISTEN_ADDR"
	KeyDownloadDir     = "DOWNLOAD_DIR"
	KeyMaxConcurrent   = "MAX_CONCURRENT_DOWNLOADS"
	KeyYtdlpBinary     = "YTDLP_BINARY"
	KeyCleanupInterval = "CLEANUP_INTERVAL"
	KeyRetentionWindow = "RETENTION_WINDOW"
	KeyAllowedOrigins  = "ALLOWED_ORIGINS"
	KeyLogLevel        = "LOG_LEVEL"
)

// Default values
const (
	DefaultListenAddr      = ":8000"
	DefaultDownloadDir     = "downloads"
	DefaultMaxConcurrent   = 5
	DefaultYtdlpBinary     = "yt-dlp"
	DefaultCleanupInterval = time.Hour
	DefaultRetentionWindow = 24 * time.Hour
	DefaultAllowedOrigins  = "http://localhost:3000,http://127.0.0.1:3000"
	DefaultLogLevel        = "info"
)

// Concurrency clamp bounds
const (
	MinConcurrent = 1
	MaxConcurrent = 10
)

// Settings holds the server configuration
type Settings struct {
	ListenAddr      string
	DownloadDir     string
	MaxConcurrent   int
	YtdlpBinary     string
	CleanupInterval time.Duration
	RetentionWindow time.Duration
	AllowedOrigins  string
	LogLevel        string
}

// Load reads settings from the environment. A .env file in the working
// directory is merged in first when present; a missing file is not an
// error.
func Load() *Settings {
	_ = godotenv.Load()

	return &Settings{
		ListenAddr:      envString(KeyListenAddr, DefaultListenAddr),
		DownloadDir:     envString(KeyDownloadDir, DefaultDownloadDir),
		MaxConcurrent:   clampConcurrent(envInt(KeyMaxConcurrent, DefaultMaxConcurrent)),
		YtdlpBinary:     envString(KeyYtdlpBinary, DefaultYtdlpBinary),
		CleanupInterval: envDuration(KeyCleanupInterval, DefaultCleanupInterval),
		RetentionWindow: envDuration(KeyRetentionWindow, DefaultRetentionWindow),
		AllowedOrigins:  envString(KeyAllowedOrigins, DefaultAllowedOrigins),
		LogLevel:        envString(KeyLogLevel, DefaultLogLevel),
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func clampConcurrent(count int) int {
	if count < MinConcurrent {
		return MinConcurrent
	}
	if count > MaxConcurrent {
		return MaxConcurrent
	}
	return count
}
