package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrCodeConfigWrite      ErrorCode = "CONFIG_WRITE"
	ErrCodeHookInvalid      ErrorCode = "HOOK_INVALID"

	// Command execution errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// Git errors
	ErrCodeGitNotRepo  ErrorCode = "GIT_NOT_REPO"
	ErrCodeGitDetached ErrorCode = "GIT_DETACHED"
	ErrCodeHookInstall ErrorCode = "HOOK_INSTALL"

	// Run outcome errors
	ErrCodeChecksFailed    ErrorCode = "CHECKS_FAILED"
	ErrCodePromptCancelled ErrorCode = "PROMPT_CANCELLED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// PreflightError represents a structured error with context
type PreflightError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PreflightError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PreflightError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *PreflightError) WithDetail(key string, value interface{}) *PreflightError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *PreflightError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new PreflightError
func New(code ErrorCode, message string) *PreflightError {
	return &PreflightError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PreflightError
func Wrap(err error, code ErrorCode, message string) *PreflightError {
	return &PreflightError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first PreflightError in err's chain.
func As(err error) (*PreflightError, bool) {
	for err != nil {
		if pErr, ok := err.(*PreflightError); ok {
			return pErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific PreflightError code
func Is(err error, code ErrorCode) bool {
	pErr, ok := As(err)
	return ok && pErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if pErr, ok := As(err); ok {
		return pErr.Code
	}
	return ""
}
