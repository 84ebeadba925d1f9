// Package prompt asks the interactive questions preflight needs: recovery
// confirmations during a run and the questions of the configuration wizard.
package prompt

import (
	"context"
	"strings"
	"unicode"
)

// Completer returns suggestions for the text typed so far.
type Completer func(input string) []string

// Prompter is an interactive question asker. Every method returns an error
// when the prompt was cancelled or no terminal is available; callers treat
// that as a decline.
type Prompter interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
	Select(ctx context.Context, title string, options []string) (string, error)
	MultiSelect(ctx context.Context, title string, options []string, required bool) ([]string, error)
	Input(ctx context.Context, title, placeholder string, complete Completer) (string, error)
}

// ParseList splits input on commas and whitespace, dropping duplicates
// while keeping the first occurrence order.
func ParseList(input string) []string {
	items := []string{}
	seen := map[string]bool{}
	for _, part := range strings.FieldsFunc(input, isListSeparator) {
		if seen[part] {
			continue
		}
		seen[part] = true
		items = append(items, part)
	}
	return items
}

func isListSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
