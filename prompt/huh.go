package prompt

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/grovetools/preflight/errors"
	"github.com/grovetools/preflight/tui/theme"
)

// ErrNoTerminal is the cause of a prompt refused because stdin is not a TTY.
var ErrNoTerminal = stderrors.New("stdin is not a terminal")

// HuhPrompter implements Prompter with charmbracelet/huh forms.
type HuhPrompter struct {
	in    *os.File
	out   io.Writer
	theme *huh.Theme
}

// Ensure it implements the interface
var _ Prompter = (*HuhPrompter)(nil)

// NewHuhPrompter creates a prompter on stdin and stderr, leaving stdout to
// the run's status lines.
func NewHuhPrompter() *HuhPrompter {
	return NewHuhPrompterWithIO(os.Stdin, os.Stderr)
}

// NewHuhPrompterWithIO creates a prompter on the given streams.
func NewHuhPrompterWithIO(in *os.File, out io.Writer) *HuhPrompter {
	return &HuhPrompter{in: in, out: out, theme: theme.Huh(theme.Current())}
}

// Interactive reports whether prompts can be shown at all.
func (p *HuhPrompter) Interactive() bool {
	return p.in != nil && term.IsTerminal(int(p.in.Fd()))
}

func (p *HuhPrompter) run(ctx context.Context, title string, field huh.Field) error {
	if !p.Interactive() {
		return errors.PromptCancelled(title, ErrNoTerminal)
	}
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(p.theme).
		WithInput(p.in).
		WithOutput(p.out)
	if err := form.RunWithContext(ctx); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
			return errors.PromptCancelled(title, err)
		}
		return errors.Wrap(err, errors.ErrCodePromptCancelled, fmt.Sprintf("prompt failed: %s", title))
	}
	return nil
}

// Confirm asks a yes/no question.
func (p *HuhPrompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	var answer bool
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if err := p.run(ctx, title, field); err != nil {
		return false, err
	}
	return answer, nil
}

// Select asks for exactly one of options.
func (p *HuhPrompter) Select(ctx context.Context, title string, options []string) (string, error) {
	var answer string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&answer)
	if err := p.run(ctx, title, field); err != nil {
		return "", err
	}
	return answer, nil
}

// MultiSelect asks for any subset of options, at least one when required.
func (p *HuhPrompter) MultiSelect(ctx context.Context, title string, options []string, required bool) ([]string, error) {
	var answer []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Validate(func(selected []string) error {
			if required && len(selected) == 0 {
				return fmt.Errorf("select at least one option")
			}
			return nil
		}).
		Value(&answer)
	if err := p.run(ctx, title, field); err != nil {
		return nil, err
	}
	return answer, nil
}

// Input asks for free text, suggesting completions from complete as the
// user types.
func (p *HuhPrompter) Input(ctx context.Context, title, placeholder string, complete Completer) (string, error) {
	var answer string
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&answer)
	if complete != nil {
		field = field.SuggestionsFunc(func() []string {
			return complete(answer)
		}, &answer)
	}
	if err := p.run(ctx, title, field); err != nil {
		return "", err
	}
	return answer, nil
}
