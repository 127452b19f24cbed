package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ansiBySeverity holds the color codes used when rendering to a real
// terminal. Kept unexported: this package renders a summary for CLI
// consumption, not markup for an editor (that rendering lives with the
// driver, spec §1 out-of-scope list).
var ansiBySeverity = map[Severity]string{
	Error:   "\x1b[31m",
	Warning: "\x1b[33m",
	Info:    "\x1b[36m",
}

const ansiReset = "\x1b[0m"

// Printer writes a Bag's diagnostics to a stream, colorizing severities
// only when the stream is attached to a real terminal. Using isatty here
// (rather than a --color flag the caller must remember) matches the
// terminal-capability check the teacher's CLI tooling favors.
type Printer struct {
	w      io.Writer
	color  bool
	unit   string
}

// NewPrinter builds a Printer for w, auto-detecting color support when w is
// an *os.File.
func NewPrinter(w io.Writer, unit string) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{w: w, color: color, unit: unit}
}

// Print writes every diagnostic in the bag, one per line.
func (p *Printer) Print(b *Bag) {
	for _, d := range b.Items() {
		p.printOne(d)
	}
}

func (p *Printer) printOne(d *DiagnosticError) {
	sev := d.Severity.String()
	if p.color {
		sev = ansiBySeverity[d.Severity] + sev + ansiReset
	}
	fmt.Fprintf(p.w, "%s:%d:%d: %s: [%s] %s\n",
		p.unit, d.Span.Start.Line, d.Span.Start.Column, sev, d.Code, d.Message)
}
