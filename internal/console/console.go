// Package console prints user-facing output: panels, status lines and
// tables. Diagnostics go through slog instead; see internal/logging.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/thoreinstein/repokit/internal/logging"
)

// Status icons, shared with the doctor output.
const (
	IconPass = "✓"
	IconInfo = "ℹ"
	IconWarn = "⚠"
	IconFail = "✗"
)

// Printer writes formatted lines to one writer. In quiet mode only errors
// are printed. A nil *Printer discards everything.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool

	colors palette
}

// palette is empty when color is disabled.
type palette struct {
	pass, warn, fail, info, title *color.Color
}

// New returns a Printer for out. Colors are enabled when out supports them.
func New(out io.Writer, quiet bool) *Printer {
	p := &Printer{out: out, quiet: quiet}
	if logging.SupportsColor(out) {
		p.colors = palette{
			pass:  color.New(color.FgGreen),
			warn:  color.New(color.FgYellow),
			fail:  color.New(color.FgRed, color.Bold),
			info:  color.New(color.FgCyan),
			title: color.New(color.Bold, color.FgMagenta),
		}
		for _, c := range []*color.Color{p.colors.pass, p.colors.warn, p.colors.fail, p.colors.info, p.colors.title} {
			c.EnableColor()
		}
	}
	return p
}

// Discard returns a Printer that prints nothing.
func Discard() *Printer { return New(io.Discard, true) }

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (p *Printer) palette() palette {
	if p == nil {
		return palette{}
	}
	return p.colors
}

func (p *Printer) status(force bool, c *color.Color, icon, format string, args ...any) {
	p.line(force, paint(c, icon)+" "+fmt.Sprintf(format, args...))
}

func (p *Printer) line(force bool, s string) {
	if p == nil || (p.quiet && !force) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}

// Printf prints a plain line.
func (p *Printer) Printf(format string, args ...any) {
	p.line(false, fmt.Sprintf(format, args...))
}

// Success prints a line prefixed with a check mark.
func (p *Printer) Success(format string, args ...any) {
	p.status(false, p.palette().pass, IconPass, format, args...)
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	p.status(false, p.palette().info, IconInfo, format, args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.status(false, p.palette().warn, IconWarn, format, args...)
}

// Error prints an error line. Errors are printed in quiet mode too.
func (p *Printer) Error(format string, args ...any) {
	p.status(true, p.palette().fail, IconFail, format, args...)
}

// Panel prints title inside a box.
func (p *Printer) Panel(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	width := utf8.RuneCountInString(text) + 2
	bar := strings.Repeat("─", width)
	title := p.palette().title
	p.line(false, "┌"+bar+"┐\n│ "+paint(title, text)+" │\n└"+bar+"┘")
}

// Table prints an aligned table with a header row.
func (p *Printer) Table(headers []string, rows [][]string) {
	if p == nil || p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	seps := make([]string, len(headers))
	for i, h := range headers {
		seps[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	fmt.Fprintln(tw, strings.Join(seps, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// Writer returns the underlying writer, or io.Discard in quiet mode.
func (p *Printer) Writer() io.Writer {
	if p == nil || p.quiet {
		return io.Discard
	}
	return p.out
}
