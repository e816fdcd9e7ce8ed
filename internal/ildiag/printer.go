package ildiag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer renders a Bag's diagnostics as text, one per line, colorized
// by severity when Color is set. The CLI decides Color by checking
// whether its output stream is a terminal (golang.org/x/term.IsTerminal)
// before constructing a Printer, the same gate the teacher's CLI uses
// around github.com/fatih/color.
type Printer struct {
	W     io.Writer
	Color bool
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	return &Printer{W: w, Color: useColor}
}

func (p *Printer) tag(sev Severity) string {
	label := sev.String()
	if !p.Color {
		return label
	}
	var c *color.Color
	switch sev {
	case SevError:
		c = color.New(color.FgRed)
	case SevWarning:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgCyan)
	}
	c.EnableColor()
	return c.Sprint(label)
}

// Print writes every diagnostic in b, in its current order (call
// Bag.Sort first for a deterministic report).
func (p *Printer) Print(b *Bag) {
	for _, d := range b.Items() {
		if d.Line > 0 {
			fmt.Fprintf(p.W, "[%s] line %d: %s\n", p.tag(d.Severity), d.Line, d.Message)
		} else {
			fmt.Fprintf(p.W, "[%s] %s\n", p.tag(d.Severity), d.Message)
		}
	}
}
