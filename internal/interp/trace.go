package interp

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"amini/internal/il"
)

// TraceEvent is one step of execution, emitted to a TraceSink in
// program order. It is the unit msgpack-encodes for a binary trace
// file, and the unit a human-readable Tracer formats as text.
type TraceEvent struct {
	Block  string `msgpack:"block"`
	Index  int    `msgpack:"index"` // -1 for the block's terminator
	Text   string `msgpack:"text"`
	Effect string `msgpack:"effect,omitempty"` // e.g. "write 7", "read -> %r"
}

// TraceSink receives trace events as the Machine executes. nil is a
// legal Machine.Trace value and means tracing is disabled.
type TraceSink interface {
	TraceStep(ev TraceEvent)
}

// Tracer writes human-readable trace lines to w, mirroring the
// teacher's own "[depth] target instr @ span" tracing shape, minus the
// span (this model carries no source positions).
type Tracer struct {
	w io.Writer
}

// NewTracer creates a Tracer writing to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

func (t *Tracer) TraceStep(ev TraceEvent) {
	if t == nil || t.w == nil {
		return
	}
	if ev.Index < 0 {
		fmt.Fprintf(t.w, "@%s:term %s\n", ev.Block, ev.Text)
	} else {
		fmt.Fprintf(t.w, "@%s:%d %s\n", ev.Block, ev.Index, ev.Text)
	}
	if ev.Effect != "" {
		fmt.Fprintf(t.w, "    %s\n", ev.Effect)
	}
}

// BinaryRecorder accumulates TraceEvents for msgpack encoding, for the
// CLI's `--trace-file` binary trace capture.
type BinaryRecorder struct {
	Events []TraceEvent
}

// NewBinaryRecorder creates an empty BinaryRecorder.
func NewBinaryRecorder() *BinaryRecorder {
	return &BinaryRecorder{}
}

func (r *BinaryRecorder) TraceStep(ev TraceEvent) {
	r.Events = append(r.Events, ev)
}

// WriteTo msgpack-encodes the recorded events to w.
func (r *BinaryRecorder) WriteTo(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(r.Events)
}

// ReadTraceFile decodes a msgpack-encoded event list previously
// produced by BinaryRecorder.WriteTo.
func ReadTraceFile(r io.Reader) ([]TraceEvent, error) {
	dec := msgpack.NewDecoder(r)
	var events []TraceEvent
	if err := dec.Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

func instrEventText(instr il.Instr) string {
	return instr.String()
}

func termEventText(term il.Terminator) string {
	return term.String()
}
