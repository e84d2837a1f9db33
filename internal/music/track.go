package music

import "fmt"

// Track is one resolved, playable unit. Immutable once returned by the
// resolver.
type Track struct {
	Title           string
	StreamURL       string
	Duration        string
	DurationSeconds int
	Thumbnail       string
	OriginalURL     string
}

// formatDuration renders seconds as HH:MM:SS or MM:SS.
func formatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
