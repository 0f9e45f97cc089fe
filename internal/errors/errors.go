package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeAuthRequired     ErrorCode = "AUTH-001"
	ErrCodeTokenInvalid     ErrorCode = "AUTH-002"
	ErrCodeTokenExpired     ErrorCode = "AUTH-003"
	ErrCodeTokenNotYetValid ErrorCode = "AUTH-004"
	ErrCodeLoginFailed      ErrorCode = "AUTH-005"
	ErrCodeBadCredentials   ErrorCode = "AUTH-006"

	// Role errors (ROLE-001 to ROLE-099)
	ErrCodeForbidden      ErrorCode = "ROLE-001"
	ErrCodeRoleUnresolved ErrorCode = "ROLE-002"

	// API errors (API-001 to API-099)
	ErrCodeAPIUnreachable ErrorCode = "API-001"
	ErrCodeAPIServerError ErrorCode = "API-002"
	ErrCodeAPIBadPayload  ErrorCode = "API-003"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionReadFailed  ErrorCode = "SESSION-001"
	ErrCodeSessionWriteFailed ErrorCode = "SESSION-002"
)

// SteepleError represents an enhanced error with code and suggestions
type SteepleError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *SteepleError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *SteepleError) Unwrap() error {
	return e.Cause
}

// New creates a new SteepleError
func New(code ErrorCode, message string) *SteepleError {
	return &SteepleError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new SteepleError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *SteepleError {
	return &SteepleError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *SteepleError) WithSuggestion(suggestion string) *SteepleError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *SteepleError) WithSuggestions(suggestions ...string) *SteepleError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var se *SteepleError
	return stderrors.As(err, &se) && se.Code == code
}

// Common error constructors for frequently used errors

// NewAuthRequiredError signals that the command needs a valid login session
func NewAuthRequiredError(reason string) *SteepleError {
	return New(ErrCodeAuthRequired, fmt.Sprintf("not signed in: %s", reason)).
		WithSuggestion("Run 'steeple auth login' to sign in").
		WithSuggestion("Run 'steeple auth status' to inspect the current session")
}

// NewForbiddenError signals that the session is valid but the role is insufficient
func NewForbiddenError(capability string) *SteepleError {
	return New(ErrCodeForbidden, fmt.Sprintf("your role does not allow %s", capability)).
		WithSuggestion("Ask a company Owner or Admin to perform this action").
		WithSuggestion("Run 'steeple dashboard' for screens available to every role")
}

// NewLoginFailedError signals a login attempt that produced no usable token
func NewLoginFailedError(cause error) *SteepleError {
	return Wrap(ErrCodeLoginFailed, "login failed", cause).
		WithSuggestion("Check the email and password and try again").
		WithSuggestion("Run 'steeple auth signup' if you do not have an account yet")
}

// NewAPIUnreachableError signals a transport-level failure talking to the platform
func NewAPIUnreachableError(baseURL string, cause error) *SteepleError {
	return Wrap(ErrCodeAPIUnreachable, fmt.Sprintf("could not reach the Steeple API at %s", baseURL), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify the API URL: STEEPLE_API_URL or ~/.steeple/config.yaml")
}

// NewConfigInvalidError signals an unparseable config file
func NewConfigInvalidError(path string, cause error) *SteepleError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid config file: %s", path), cause).
		WithSuggestion("Check the YAML syntax").
		WithSuggestion("Delete the file to fall back to defaults")
}
