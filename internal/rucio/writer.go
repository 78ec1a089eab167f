// Package rucio provides the output writer primitive the generator streams IR text into: a
// single-threaded, append-only, no-backpressure buffered writer. Writes are expected to be
// small and frequent, one instruction line at a time.
package rucio

import (
	"bufio"
	"fmt"
	"io"
)

// Writer wraps a buffered writer with the small set of helpers the Module/Declaration/
// Statement/Expression emitters use to assemble IR text line by line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer appending to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a formatted line, terminated by a newline the caller includes in format if wanted.
func (w *Writer) Write(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.w, format, args...)
}

// WriteString writes s verbatim.
func (w *Writer) WriteString(s string) {
	_, _ = w.w.WriteString(s)
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	_, _ = w.w.WriteString(s)
	_, _ = w.w.WriteRune('\n')
}

// Label writes a bare label line ("labelN:\n").
func (w *Writer) Label(name string) {
	_, _ = fmt.Fprintf(w.w, "%s:\n", name)
}

// Flush flushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
