package ytdlp

// Package ytdlp supervises the external yt-dlp executable. It builds the
// argument set for a validated request, launches the process, scans its
// diagnostic stream for progress lines, and collects the produced file. The
// executable is treated as opaque: progress extraction is a best-effort
// line heuristic kept behind ParseProgressLine so it can be tested without
// process plumbing.
