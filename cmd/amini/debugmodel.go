package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"amini/internal/bignum"
	"amini/internal/il"
	"amini/internal/interp"
)

// ringTrace keeps the last n trace lines for the debug console's
// scrollback, the same bounded-history shape the teacher's progress
// model keeps per-file status in rather than an unbounded log.
type ringTrace struct {
	lines []string
	cap   int
}

func newRingTrace(cap int) *ringTrace {
	return &ringTrace{cap: cap}
}

func (r *ringTrace) TraceStep(ev interp.TraceEvent) {
	loc := fmt.Sprintf("@%s:%d", ev.Block, ev.Index)
	r.lines = append(r.lines, loc+" "+ev.Text)
	if len(r.lines) > r.cap {
		r.lines = r.lines[len(r.lines)-r.cap:]
	}
}

type debugModel struct {
	machine *interp.Machine
	trace   *ringTrace
	output  *interp.RecordingOutput
	status  string
	quit    bool
	scroll  viewport.Model
	resized bool
}

func newDebugModel(cfg *il.CFG, bps *interp.Breakpoints, input interp.InputSource) *debugModel {
	out := interp.NewRecordingOutput()
	m := interp.NewMachine(cfg, input, out)
	m.Breakpoints = bps
	rt := newRingTrace(12)
	m.Trace = rt
	return &debugModel{
		machine: m,
		trace:   rt,
		output:  out,
		status:  "ready",
		scroll:  viewport.New(60, 12),
	}
}

func (d *debugModel) Init() tea.Cmd { return nil }

func (d *debugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		d.scroll.Width = m.Width
		d.scroll.Height = m.Height - 6
		d.resized = true
		return d, nil
	case tea.KeyMsg:
		switch m.String() {
		case "q", "ctrl+c":
			d.quit = true
			return d, tea.Quit
		case "s":
			d.step()
		case "c":
			d.cont()
		case "r":
			d.runToEnd()
		default:
			var cmd tea.Cmd
			d.scroll, cmd = d.scroll.Update(msg)
			return d, cmd
		}
		d.scroll.SetContent(strings.Join(d.trace.lines, "\n"))
		d.scroll.GotoBottom()
	}
	return d, nil
}

func (d *debugModel) step() {
	if d.machine.Halted() {
		d.status = "halted"
		return
	}
	if err := d.machine.Step(); err != nil {
		d.status = "error: " + err.Error()
		return
	}
	d.status = fmt.Sprintf("stepped into @%s", d.machine.CurrentBlock())
}

func (d *debugModel) cont() {
	bp, stopped, err := d.machine.RunUntilBreak()
	switch {
	case err != nil:
		d.status = "error: " + err.Error()
	case stopped:
		d.status = fmt.Sprintf("hit breakpoint %q (#%d) at @%s", bp.Name, bp.ID, d.machine.CurrentBlock())
	default:
		d.status = "halted"
	}
}

func (d *debugModel) runToEnd() {
	if err := d.machine.Run(); err != nil {
		d.status = "error: " + err.Error()
		return
	}
	d.status = "halted"
}

func (d *debugModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Render("amini debug")
	help := lipgloss.NewStyle().Faint(true).Render("s step  c continue  r run to end  q quit")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("  ")
	b.WriteString(help)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "block: @%s   halted: %v   status: %s\n\n", d.machine.CurrentBlock(), d.machine.Halted(), d.status)

	b.WriteString(lipgloss.NewStyle().Underline(true).Render("trace"))
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("  (scroll with ↑/↓ once the pane overflows)"))
	b.WriteString("\n")
	if d.resized {
		b.WriteString(d.scroll.View())
	} else {
		for _, line := range d.trace.lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Underline(true).Render("output"))
	b.WriteString("\n")
	for _, v := range d.output.Values {
		b.WriteString("  ")
		b.WriteString(v.String())
		b.WriteString("\n")
	}
	return b.String()
}

func parseScriptedInput(s string) ([]bignum.Int, error) {
	fields := strings.Fields(s)
	values := make([]bignum.Int, 0, len(fields))
	for _, f := range fields {
		v, err := bignum.ParseDecimalToken(f)
		if err != nil {
			return nil, fmt.Errorf("--input: %w", err)
		}
		values = append(values, v)
	}
	return values, nil
}
