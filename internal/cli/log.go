// Package cli implements the badgeboard command-line interface.
//
// This package provides commands for creating and validating badge
// documents, listing bindable attendee fields, resolving badges for
// attendee lists, rendering previews, and managing stored templates and
// the preview cache. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
//   - new: Create a blank or sample badge document
//   - validate: Check documents against the import rules
//   - inspect: Print or draw the element tree
//   - fields: List bindable fields, optionally picking one interactively
//   - resolve: Resolve one badge per attendee as JSON
//   - render: Render previews to SVG, PNG, PDF or JSON
//   - template: Manage stored templates
//   - serve: Run the HTTP boundary
//   - cache: Manage the preview cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Resolved 42 badges (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
