package debug

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "skyarc",
})

// Logger returns the shared structured logger.
func Logger() *log.Logger {
	return logger
}

// Warnf emits a structured warning with key/value context.
func Warnf(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
}

// Debugf emits a structured debug record with key/value context.
func Debugf(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}
