package slackexport

import (
	"fmt"

	"go.uber.org/zap"
)

// Issue is a recoverable problem found while converting a channel
type Issue struct {
	File     string `json:"file,omitempty"`
	Position int    `json:"position"` // zero-based record index, -1 when not record-local
	Message  string `json:"message"`
}

func (i Issue) String() string {
	switch {
	case i.File == "":
		return i.Message
	case i.Position < 0:
		return fmt.Sprintf("%s: %s", i.File, i.Message)
	default:
		return fmt.Sprintf("%s[%d]: %s", i.File, i.Position, i.Message)
	}
}

// Report collects the recoverable issues of one channel. Warnings are skipped
// input; notes are linkage anomalies and filtered records that were handled.
type Report struct {
	Channel  string
	Warnings []Issue
	Notes    []Issue
}

func (r *Report) Warn(file string, position int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{File: file, Position: position, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) Note(file string, position int, format string, args ...any) {
	r.Notes = append(r.Notes, Issue{File: file, Position: position, Message: fmt.Sprintf(format, args...)})
}

// Merge appends the issues of other to r
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Notes = append(r.Notes, other.Notes...)
}

// Log writes the collected issues once, warnings at Warn and notes at Info.
func (r *Report) Log(logger *zap.Logger) {
	for _, w := range r.Warnings {
		logger.Warn("Skipped export input",
			zap.String("channel", r.Channel),
			zap.String("file", w.File),
			zap.Int("position", w.Position),
			zap.String("reason", w.Message))
	}
	for _, n := range r.Notes {
		logger.Info("Export note",
			zap.String("channel", r.Channel),
			zap.String("file", n.File),
			zap.String("note", n.Message))
	}
	if len(r.Warnings) > 0 {
		logger.Warn("Channel converted with skipped input",
			zap.String("channel", r.Channel),
			zap.Int("warnings", len(r.Warnings)),
			zap.Int("notes", len(r.Notes)))
	}
}
