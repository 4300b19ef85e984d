package logger

import (
	"github.com/op/go-logging"
)

// UploadProgressLogger logs the progress of an artifact upload.
// Pass it as the Progress reader in minio.PutObjectOptions; minio
// calls Read with a buffer the size of each chunk it has sent.
type UploadProgressLogger struct {
	logger         *logging.Logger
	chunkNumber    int
	totalBytes     int64
	fileSize       int64
	lastPctPrinted float64
	prefix         string
}

// NewUploadProgressLogger creates a new UploadProgressLogger.
func NewUploadProgressLogger(logger *logging.Logger, prefix string, fileSize int64) *UploadProgressLogger {
	return &UploadProgressLogger{
		logger:      logger,
		prefix:      prefix,
		chunkNumber: 1,
		fileSize:    fileSize,
	}
}

// Read records len(p) bytes as sent and logs at most one line per
// quarter of the file.
func (e *UploadProgressLogger) Read(p []byte) (n int, err error) {
	e.totalBytes += int64(len(p))
	pctComplete := 100.0
	if e.fileSize > 0 {
		pctComplete = float64(e.totalBytes) / float64(e.fileSize) * 100
	}
	if pctComplete-e.lastPctPrinted >= 25.0 || (pctComplete >= 100.0 && e.lastPctPrinted < 100.0) {
		e.logger.Debugf("%s: chunk %d, %d of %d bytes, %3.0f%% complete",
			e.prefix, e.chunkNumber, e.totalBytes, e.fileSize, pctComplete)
		e.lastPctPrinted = pctComplete
	}
	e.chunkNumber++
	return len(p), nil
}
