// Package output provides the styled text writer behind the test report.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ColorMode selects when the writer emits ANSI color sequences.
type ColorMode int

const (
	// ColorAuto colors only when the destination is a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways colors unconditionally, including into files.
	ColorAlways
	// ColorNever never colors.
	ColorNever
)

// Tone is the semantic color role of a piece of report text.
type Tone int

const (
	ToneOK Tone = iota
	ToneFailed
	ToneIgnored
	ToneBench
)

// ANSI palette indices.
const (
	green  = "2"
	red    = "1"
	yellow = "3"
	cyan   = "6"
)

// Writer handles report output formatting.
type Writer struct {
	out    io.Writer
	styles map[Tone]lipgloss.Style
}

// New creates a Writer on out using the given color mode.
func New(out io.Writer, mode ColorMode) *Writer {
	r := lipgloss.NewRenderer(out)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	return &Writer{
		out: out,
		styles: map[Tone]lipgloss.Style{
			ToneOK:      r.NewStyle().Foreground(lipgloss.Color(green)),
			ToneFailed:  r.NewStyle().Foreground(lipgloss.Color(red)),
			ToneIgnored: r.NewStyle().Foreground(lipgloss.Color(yellow)),
			ToneBench:   r.NewStyle().Foreground(lipgloss.Color(cyan)),
		},
	}
}

// Print writes formatted text without a trailing newline.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a formatted line.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Newline writes an empty line.
func (w *Writer) Newline() {
	fmt.Fprintln(w.out)
}

// Colored wraps s in the color of tone. Under ColorNever, or ColorAuto on a
// non-terminal, s is returned unchanged.
func (w *Writer) Colored(tone Tone, s string) string {
	style, ok := w.styles[tone]
	if !ok {
		return s
	}
	return style.Render(s)
}

// Write implements io.Writer so raw bytes (e.g. JSON lines) can share the
// destination.
func (w *Writer) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// PadRight pads s with spaces to width display cells. Longer strings are
// returned unchanged.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

var thousands = message.NewPrinter(language.English)

// Thousands formats v with a comma every three digits, e.g. 19082 -> "19,082".
func Thousands(v uint64) string {
	return thousands.Sprintf("%d", v)
}
