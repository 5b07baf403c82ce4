// Package shared holds helpers common to all runnerspoker subcommands.
package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger configures the command logger. Debug mode lowers the level
// and adds caller information.
func NewLogger(debug bool) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	}
	if debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}

	return log.NewWithOptions(os.Stderr, opts)
}
