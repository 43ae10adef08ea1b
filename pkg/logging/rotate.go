package logging

import (
	"io"

	"github.com/natefinch/lumberjack"
)

// NewRotatingWriter returns a writer appending to path with size-based
// rotation: 1 MB per file, one backup kept. Workflow logs live in the
// cache directory and Alfred never cleans them up, so keep them small.
func NewRotatingWriter(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1, // megabytes
		MaxBackups: 1,
	}
}
