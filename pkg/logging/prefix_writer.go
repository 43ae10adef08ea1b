package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and adds a prefix to each line.
// Partial lines are held back until their newline arrives, so a prefix
// is never injected in the middle of a line.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending []byte
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements the io.Writer interface. Complete lines are written
// to the underlying writer with the prefix prepended; a trailing partial
// line stays buffered until more data arrives.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.pending = append(pw.pending, p...)

	for {
		nl := bytes.IndexByte(pw.pending, '\n')
		if nl < 0 {
			break
		}

		if _, err := pw.writer.Write(pw.prefix); err != nil {
			return 0, err
		}
		if _, err := pw.writer.Write(pw.pending[:nl+1]); err != nil {
			return 0, err
		}
		pw.pending = pw.pending[nl+1:]
	}

	return len(p), nil
}
