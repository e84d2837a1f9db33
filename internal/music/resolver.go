package music

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// ErrTrackUnresolved is returned when a query or URL cannot be turned into
// a playable track.
var ErrTrackUnresolved = errors.New("could not resolve track")

// Resolver turns a user query or URL into a playable track.
type Resolver interface {
	Resolve(query string) (*Track, error)
}

// YTDLPResolver shells out to yt-dlp for track metadata and a direct audio
// stream URL. Plain-text queries fall through to a YouTube search.
type YTDLPResolver struct {
	log *slog.Logger
}

// NewYTDLPResolver creates a yt-dlp backed resolver.
func NewYTDLPResolver(log *slog.Logger) *YTDLPResolver {
	return &YTDLPResolver{log: log}
}

// Resolve fetches title, stream URL, thumbnail, and duration in one
// yt-dlp invocation.
func (r *YTDLPResolver) Resolve(query string) (*Track, error) {
	cmd := exec.Command("yt-dlp",
		"-f", "bestaudio",
		"--no-playlist",
		"--default-search", "ytsearch",
		"--get-title", "--get-url", "--get-thumbnail", "--get-duration",
		query,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("running yt-dlp", "query", query)
	if err := cmd.Run(); err != nil {
		r.log.Warn("yt-dlp failed", "query", query, "error", err, "stderr", stderr.String())
		return nil, fmt.Errorf("%w: yt-dlp: %v", ErrTrackUnresolved, err)
	}

	// yt-dlp prints one field per line: title, stream URL, thumbnail,
	// duration, in the order the --get flags imply.
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) < 4 {
		return nil, fmt.Errorf("%w: incomplete yt-dlp output", ErrTrackUnresolved)
	}

	title := lines[0]
	streamURL := lines[1]
	thumbnail := lines[2]
	durationSeconds := parseDuration(lines[3])

	if !strings.HasPrefix(thumbnail, "http") {
		thumbnail = ""
	}

	return &Track{
		Title:           title,
		StreamURL:       streamURL,
		Duration:        formatDuration(durationSeconds),
		DurationSeconds: durationSeconds,
		Thumbnail:       thumbnail,
		OriginalURL:     query,
	}, nil
}

// parseDuration converts yt-dlp's MM:SS or HH:MM:SS output to seconds.
// Unknown formats yield 0.
func parseDuration(s string) int {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		minutes, _ := strconv.Atoi(parts[0])
		seconds, _ := strconv.Atoi(parts[1])
		return minutes*60 + seconds
	case 3:
		hours, _ := strconv.Atoi(parts[0])
		minutes, _ := strconv.Atoi(parts[1])
		seconds, _ := strconv.Atoi(parts[2])
		return hours*3600 + minutes*60 + seconds
	default:
		return 0
	}
}
