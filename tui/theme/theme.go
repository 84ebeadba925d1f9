// Package theme holds the colour palette shared by preflight's console
// output, checklist table, help screen and prompts.
//
// The palette is chosen with PREFLIGHT_THEME: "terminal" (the default, plain
// ANSI colours that follow the user's terminal scheme), "kanagawa" or
// "gruvbox".
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "terminal"

// Colors is a semantic palette.
type Colors struct {
	Green  lipgloss.TerminalColor
	Yellow lipgloss.TerminalColor
	Red    lipgloss.TerminalColor
	Orange lipgloss.TerminalColor
	Cyan   lipgloss.TerminalColor
	Blue   lipgloss.TerminalColor
	Violet lipgloss.TerminalColor
	Text   lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Border lipgloss.TerminalColor
}

var registry = map[string]func() Colors{
	"terminal": newTerminalColors,
	"kanagawa": newKanagawaColors,
	"gruvbox":  newGruvboxColors,
}

var aliases = map[string]string{
	"ansi":            "terminal",
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"gruvbox-dark":    "gruvbox",
}

// Current returns the palette selected by PREFLIGHT_THEME.
func Current() Colors {
	return Named(os.Getenv("PREFLIGHT_THEME"))
}

// Named returns the palette called name, falling back to the terminal
// palette for unknown names.
func Named(name string) Colors {
	name = normalizeThemeName(name)
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if build, ok := registry[name]; ok {
		return build()
	}
	return registry[defaultThemeName]()
}

// Names lists the selectable palettes.
func Names() []string {
	return []string{"terminal", "kanagawa", "gruvbox"}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	return strings.ReplaceAll(normalized, "_", "-")
}

// Huh builds the prompt theme for colors.
func Huh(colors Colors) *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(colors.Orange).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(colors.Muted)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(colors.Orange)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(colors.Orange)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(colors.Green)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(colors.Green)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(colors.Red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(colors.Red)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(colors.Orange)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(colors.Muted)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	return t
}

func newTerminalColors() Colors {
	return Colors{
		Green:  lipgloss.Color("10"),
		Yellow: lipgloss.Color("11"),
		Red:    lipgloss.Color("9"),
		Orange: lipgloss.Color("208"),
		Cyan:   lipgloss.Color("14"),
		Blue:   lipgloss.Color("12"),
		Violet: lipgloss.Color("5"),
		Text:   lipgloss.Color("7"),
		Muted:  lipgloss.Color("8"),
		Border: lipgloss.Color("8"),
	}
}

func newKanagawaColors() Colors {
	return Colors{
		Green:  lipgloss.AdaptiveColor{Light: "#4E7C5A", Dark: "#98BB6C"},
		Yellow: lipgloss.AdaptiveColor{Light: "#A68A64", Dark: "#FF9E3B"},
		Red:    lipgloss.AdaptiveColor{Light: "#C34043", Dark: "#FF5D62"},
		Orange: lipgloss.AdaptiveColor{Light: "#CC6B4E", Dark: "#FFA066"},
		Cyan:   lipgloss.AdaptiveColor{Light: "#5B8BBE", Dark: "#7E9CD8"},
		Blue:   lipgloss.AdaptiveColor{Light: "#4F7CAC", Dark: "#7FB4CA"},
		Violet: lipgloss.AdaptiveColor{Light: "#674D7A", Dark: "#957FB8"},
		Text:   lipgloss.AdaptiveColor{Light: "#2B2F42", Dark: "#DCD7BA"},
		Muted:  lipgloss.AdaptiveColor{Light: "#6C7086", Dark: "#727169"},
		Border: lipgloss.AdaptiveColor{Light: "#B5BDC5", Dark: "#363646"},
	}
}

func newGruvboxColors() Colors {
	return Colors{
		Green:  lipgloss.AdaptiveColor{Light: "#98971A", Dark: "#B8BB26"},
		Yellow: lipgloss.AdaptiveColor{Light: "#D79921", Dark: "#FABD2F"},
		Red:    lipgloss.AdaptiveColor{Light: "#CC241D", Dark: "#FB4934"},
		Orange: lipgloss.AdaptiveColor{Light: "#D65D0E", Dark: "#FE8019"},
		Cyan:   lipgloss.AdaptiveColor{Light: "#458588", Dark: "#83A598"},
		Blue:   lipgloss.AdaptiveColor{Light: "#076678", Dark: "#458588"},
		Violet: lipgloss.AdaptiveColor{Light: "#8F3F71", Dark: "#B16286"},
		Text:   lipgloss.AdaptiveColor{Light: "#3C3836", Dark: "#EBDBB2"},
		Muted:  lipgloss.AdaptiveColor{Light: "#928374", Dark: "#BDAE93"},
		Border: lipgloss.AdaptiveColor{Light: "#D5C4A1", Dark: "#504945"},
	}
}
