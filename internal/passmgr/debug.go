package passmgr

import (
	"fmt"
	"io"
)

// DebugSink receives structured debug messages from passes. NopSink
// costs nothing when debugging is off: Debugf's arguments are still
// evaluated by the caller (Go has no macro-style short-circuit), so
// passes should guard any expensive formatting behind their own check
// where it matters, but the sink call itself is O(1).
type DebugSink interface {
	Debugf(format string, args ...any)
}

// NopSink discards every message.
type NopSink struct{}

func (NopSink) Debugf(string, ...any) {}

// WriterSink writes each message as a line to w. It adds no prefix of
// its own; messages sent through RunContext.Debugf arrive already
// prefixed with the running pass's ID.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a DebugSink that writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Debugf(format string, args ...any) {
	fmt.Fprintf(s.w, format+"\n", args...)
}
