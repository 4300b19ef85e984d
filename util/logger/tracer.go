package logger

import (
	"strings"

	"github.com/op/go-logging"
)

// Tracer lets us write Minio trace output to our logs. Each line of a
// write becomes one debug message.
type Tracer struct {
	logger *logging.Logger
}

func NewTracer(logger *logging.Logger) *Tracer {
	return &Tracer{
		logger: logger,
	}
}

func (t *Tracer) Write(p []byte) (n int, err error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\r\n"), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			t.logger.Debug(line)
		}
	}
	return len(p), nil
}
