package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/op/go-logging"
)

// LogName is the name of the module-level logger shared by all packages.
const LogName = "nl-export"

var format = logging.MustStringFormatter("%{level} - %{shortfunc} - %{message}")

/*
InitLogger creates and returns a logger suitable for logging
human-readable messages. With an empty logDir, messages go to stderr.
Otherwise they are appended to nl-export.log inside logDir. Also
returns the path to the log file, which is empty for stderr.
*/
func InitLogger(logDir string, logLevel logging.Level) (*logging.Logger, string, error) {
	var writer io.Writer = os.Stderr
	filename := ""
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, "", fmt.Errorf("cannot create log directory '%s': %w", logDir, err)
		}
		filename = filepath.Join(logDir, fmt.Sprintf("%s.log", LogName))
		file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, "", fmt.Errorf("cannot open log file '%s': %w", filename, err)
		}
		writer = file
	}
	return InitWriterLogger(writer, logLevel), filename, nil
}

// InitWriterLogger sends log output to writer. Tests use this to
// capture what was logged.
func InitWriterLogger(writer io.Writer, logLevel logging.Level) *logging.Logger {
	log := logging.MustGetLogger(LogName)
	backend := logging.NewLogBackend(writer, "", stdlog.LstdFlags)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logLevel, "")
	logging.SetBackend(leveled)
	return log
}

// Discard returns a logger that drops everything. For tests and for
// library callers who don't care.
func Discard() *logging.Logger {
	log := logging.MustGetLogger(LogName + "-discard")
	backend := logging.AddModuleLevel(logging.NewLogBackend(io.Discard, "", 0))
	backend.SetLevel(logging.CRITICAL, "")
	log.SetBackend(backend)
	return log
}

// LevelForVerbosity maps the count of -v flags to a log level.
// Zero keeps configured.
func LevelForVerbosity(verbosity int, configured logging.Level) logging.Level {
	switch {
	case verbosity >= 2:
		return logging.DEBUG
	case verbosity == 1 && configured < logging.INFO:
		return logging.INFO
	}
	return configured
}
