// Package checklist renders the active preflight profiles for --checklist.
package checklist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/tui/theme"
)

// Format selects the checklist output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown checklist format %q (want table, json or yaml)", s)
	}
}

// Document is the machine-readable checklist.
type Document struct {
	Source   string            `json:"source" yaml:"source"`
	Path     string            `json:"path,omitempty" yaml:"path,omitempty"`
	Profiles config.ProfileSet `json:"profiles" yaml:"profiles"`
}

// NewDocument builds the checklist for a loaded configuration.
func NewDocument(file *config.File, source config.Source, path string) Document {
	profiles := file.Preflight
	if profiles == nil {
		profiles = config.ProfileSet{}
	}
	return Document{Source: string(source), Path: path, Profiles: profiles}
}

// Label is the title suffix shown for each source.
func Label(source config.Source) string {
	switch source {
	case config.SourceLocal:
		return "(Local)"
	case config.SourceGlobal:
		return "(Global)"
	case config.SourceExplicit:
		return "(File)"
	default:
		return "(Default)"
	}
}

// Renderer writes checklists to one writer.
type Renderer struct {
	w      io.Writer
	styles styles
}

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

// NewRenderer creates a renderer for w. Colour is dropped when w is not a
// terminal or NO_COLOR is set.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	if !isTerminal(w) || os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}
	colors := theme.Current()
	return &Renderer{
		w: w,
		styles: styles{
			title:  r.NewStyle().Bold(true),
			header: r.NewStyle().Bold(true).Foreground(colors.Blue).Padding(0, 1),
			label:  r.NewStyle().Foreground(colors.Muted).Padding(0, 1),
			cell:   r.NewStyle().Padding(0, 1),
			border: r.NewStyle().Foreground(colors.Border),
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Render writes doc in the requested format.
func (r *Renderer) Render(doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintf(r.w, "%s %s:\n%s\n",
			r.styles.title.Render("Current Active Preflight Checklist"),
			Label(config.Source(doc.Source)),
			r.Table(doc.Profiles))
		return err
	}
}

// Table renders the profiles rotated: one column per profile, one row per
// setting.
func (r *Renderer) Table(profiles config.ProfileSet) string {
	headers := []string{""}
	for i := range profiles {
		headers = append(headers, "Profile "+strconv.Itoa(i+1))
	}

	rows := [][]string{
		{"run_when"}, {"branches"}, {"checks"}, {"autofix"}, {"override"},
	}
	for _, p := range profiles {
		rows[0] = append(rows[0], bullets(p.RunWhen, "- any"))
		rows[1] = append(rows[1], bullets(p.Branches, "- any"))
		rows[2] = append(rows[2], boxes(p.Checks))
		rows[3] = append(rows[3], strconv.FormatBool(p.Autofix))
		rows[4] = append(rows[4], strconv.FormatBool(p.Override))
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.border).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return r.styles.header
			}
			if col == 0 {
				return r.styles.label
			}
			return r.styles.cell
		})
	return t.String()
}

func bullets(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func boxes(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "[ ] " + item
	}
	return strings.Join(lines, "\n")
}
