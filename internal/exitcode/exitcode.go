package exitcode

import (
	"errors"
	"os"
	"strings"

	steeperr "github.com/steeplefin/steeple/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates a missing, invalid, or expired session
	AuthError = 3

	// Forbidden indicates a valid session whose role is insufficient
	Forbidden = 4

	// NetworkError indicates a network connectivity issue
	NetworkError = 5

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var coded *steeperr.SteepleError
	if errors.As(err, &coded) {
		switch coded.Code {
		case steeperr.ErrCodeAuthRequired, steeperr.ErrCodeTokenInvalid,
			steeperr.ErrCodeTokenExpired, steeperr.ErrCodeTokenNotYetValid,
			steeperr.ErrCodeLoginFailed, steeperr.ErrCodeBadCredentials:
			return AuthError
		case steeperr.ErrCodeForbidden:
			return Forbidden
		case steeperr.ErrCodeAPIUnreachable:
			return NetworkError
		case steeperr.ErrCodeRoleUnresolved:
			// An unresolved role is an upstream failure, not a denial.
			if steeperr.IsCode(coded.Cause, steeperr.ErrCodeAPIUnreachable) {
				return NetworkError
			}
			return GeneralError
		}
	}

	// Fall back to message sniffing for errors from outside the module.
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "not signed in") {
		return AuthError
	}
	if strings.Contains(errMsg, "forbidden") {
		return Forbidden
	}
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "unreachable") || strings.Contains(errMsg, "no such host") {
		return NetworkError
	}
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "required flag") {
		return UsageError
	}

	return GeneralError
}
