package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/preflight/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err
// unchanged so the caller can still pick the exit status.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	pErr, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeChecksFailed:
		fmt.Fprintf(h.Out, "❌ %v\n", err)

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "❌ %v\n", err)
		if pErr != nil && pErr.Cause != nil {
			fmt.Fprintf(h.Out, "   %v\n", pErr.Cause)
		}
		fmt.Fprintf(h.Out, "Fix the file or run 'preflight --config' to recreate it.\n")

	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "❌ Configuration not found. Run 'preflight --config' to create one.\n")

	case errors.ErrCodeHookInvalid:
		if pErr != nil {
			fmt.Fprintf(h.Out, "❌ Invalid hook '%v'. Supported triggers are 'commit' and 'push'.\n", pErr.Details["hook"])
		}

	case errors.ErrCodeCommandNotFound:
		if pErr != nil {
			fmt.Fprintf(h.Out, "❌ Could not run '%v'. Make sure the tool is installed and on your PATH.\n", pErr.Details["command"])
		}

	case errors.ErrCodeGitNotRepo:
		fmt.Fprintf(h.Out, "❌ Not inside a git repository.\n")

	case errors.ErrCodePromptCancelled:
		fmt.Fprintf(h.Out, "❌ Cancelled.\n")

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	if h.Verbose && pErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", pErr.ToJSON())
	}
	return err
}
