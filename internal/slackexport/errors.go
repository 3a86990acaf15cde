package slackexport

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Fatal error codes. Anything else met during a run is recoverable and ends
// up in a channel Report instead.
const (
	CodeExportRootMissing    = "export_root_missing"
	CodeExportRootUnreadable = "export_root_unreadable"
	CodeNoChannelsMatched    = "no_channels_matched"
	CodeOutputUnwritable     = "output_unwritable"
)

// fatalGuidance holds the operator-facing explanation for each fatal code
var fatalGuidance = map[string]string{
	CodeExportRootMissing:    "Export directory does not exist. Pass the directory of the unzipped Slack export.",
	CodeExportRootUnreadable: "Export directory cannot be read. Check that it is a directory and its permissions.",
	CodeNoChannelsMatched:    "No channel directory matches the pattern. Use '*' to convert every channel.",
	CodeOutputUnwritable:     "Output directory cannot be created or written.",
}

// FatalError aborts a conversion run
type FatalError struct {
	Code    string
	Message string
	Err     error
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("EXPORT ERROR: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("EXPORT ERROR: %s (code: %s): %v", e.Message, e.Code, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func newFatalError(code string, err error) *FatalError {
	return &FatalError{Code: code, Message: fatalGuidance[code], Err: err}
}

// matchFatalError returns the FatalError in err's chain, or nil
func matchFatalError(err error) *FatalError {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// IsFatal reports whether err aborts a run
func IsFatal(err error) bool {
	return matchFatalError(err) != nil
}

// WrapError logs fatal errors with their guidance and annotates everything
// else with the operation name. It is meant for the CLI and tool boundaries.
func WrapError(logger *zap.Logger, operation string, err error) error {
	if err == nil {
		return nil
	}

	if fatalErr := matchFatalError(err); fatalErr != nil {
		logger.Error("Export conversion failed",
			zap.String("operation", operation),
			zap.String("code", fatalErr.Code),
			zap.String("guidance", fatalErr.Message),
			zap.Error(err))
		return fatalErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
