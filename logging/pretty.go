package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/grovetools/preflight/tui/theme"
)

// PrettyLogger writes the user-facing status lines of a preflight run.
type PrettyLogger struct {
	writer io.Writer
	styles PrettyStyles
}

// PrettyStyles contains lipgloss styles for different line types
type PrettyStyles struct {
	Heading lipgloss.Style
	Success lipgloss.Style
	Fixed   lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Code    lipgloss.Style
}

// NewPrettyStyles builds the styles for colors bound to renderer r.
func NewPrettyStyles(r *lipgloss.Renderer, colors theme.Colors) PrettyStyles {
	return PrettyStyles{
		Heading: r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(colors.Green),
		Fixed:   r.NewStyle().Foreground(colors.Yellow),
		Info:    r.NewStyle().Foreground(colors.Blue),
		Warning: r.NewStyle().Foreground(colors.Yellow).Italic(true),
		Error:   r.NewStyle().Foreground(colors.Red).Bold(true),
		Muted:   r.NewStyle().Foreground(colors.Muted),
		Code:    r.NewStyle().Foreground(colors.Text),
	}
}

// NewPrettyLogger creates a pretty logger writing to stdout.
func NewPrettyLogger() *PrettyLogger {
	return NewPrettyLoggerWithWriter(os.Stdout)
}

// NewPrettyLoggerWithWriter creates a pretty logger for w. Colour is dropped
// when w is not a terminal or NO_COLOR is set.
func NewPrettyLoggerWithWriter(w io.Writer) *PrettyLogger {
	r := lipgloss.NewRenderer(w)
	if !isTerminal(w) || os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}
	return &PrettyLogger{
		writer: w,
		styles: NewPrettyStyles(r, theme.Current()),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Heading prints a bold section title.
func (p *PrettyLogger) Heading(message string) {
	fmt.Fprintln(p.writer, p.styles.Heading.Render(message))
}

// Pass prints an indented "[√]" status line.
func (p *PrettyLogger) Pass(message string) {
	fmt.Fprintf(p.writer, "    %s\n", p.styles.Success.Render("[√] "+message))
}

// Fixed prints an indented status line for an applied autofix.
func (p *PrettyLogger) Fixed(message string) {
	fmt.Fprintf(p.writer, "    %s\n", p.styles.Fixed.Render("[√] "+message))
}

// Fail prints an indented "[x]" status line.
func (p *PrettyLogger) Fail(message string) {
	fmt.Fprintf(p.writer, "    %s\n", p.styles.Error.Render("[x] "+message))
}

// InfoPretty prints a plain informational line.
func (p *PrettyLogger) InfoPretty(message string) {
	fmt.Fprintln(p.writer, p.styles.Info.Render(message))
}

// WarnPretty prints an italic warning line.
func (p *PrettyLogger) WarnPretty(message string) {
	fmt.Fprintln(p.writer, p.styles.Warning.Render(message))
}

// ErrorPretty prints an error line with an optional cause.
func (p *PrettyLogger) ErrorPretty(message string, err error) {
	fmt.Fprint(p.writer, p.styles.Error.Render(message))
	if err != nil {
		fmt.Fprintf(p.writer, ": %s", p.styles.Error.Render(err.Error()))
	}
	fmt.Fprintln(p.writer)
}

// Muted prints a de-emphasised line.
func (p *PrettyLogger) Muted(message string) {
	fmt.Fprintln(p.writer, p.styles.Muted.Render(message))
}

// Code prints captured tool output, indented.
func (p *PrettyLogger) Code(content string) {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return
	}
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.writer, "      %s\n", p.styles.Code.Render(line))
	}
}

// Blank prints a blank line
func (p *PrettyLogger) Blank() {
	fmt.Fprintln(p.writer)
}
