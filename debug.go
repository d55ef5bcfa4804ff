package infospot

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with the "infospot" prefix and timestamps,
// filtering at level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "infospot",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// defaultLogger reports warnings and errors to stderr.
func defaultLogger() *log.Logger {
	return NewLogger(os.Stderr, log.WarnLevel)
}

// debugMaxMarkers is the marker count above which a board in debug mode
// warns that overlays share one HUD.
const debugMaxMarkers = 256

func (b *Board) debugCheckMarkerCount() {
	if len(b.markers) > debugMaxMarkers {
		b.logger.Warn("marker count exceeds threshold", "markers", len(b.markers), "threshold", debugMaxMarkers)
	}
}

// SetDebugMode enables or disables debug logging. When enabled, marker
// lifecycle, overlay mounting and script steps are logged and the marker
// count is checked on every AddMarker.
func (b *Board) SetDebugMode(enabled bool) {
	b.debug = enabled
	if enabled {
		b.logger.SetLevel(log.DebugLevel)
	} else {
		b.logger.SetLevel(b.level)
	}
}

// SetLogger replaces the board's logger. Markers added afterwards log
// through it.
func (b *Board) SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	b.logger = l
	b.hud.logger = l
	b.level = l.GetLevel()
	if b.debug {
		l.SetLevel(log.DebugLevel)
	}
}
