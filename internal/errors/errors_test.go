package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	err := New(ErrCodeForbidden, "your role does not allow the admin command center")

	msg := err.Error()
	assert.Contains(t, msg, "[ROLE-001]")
	assert.Contains(t, msg, "your role does not allow")
	assert.NotContains(t, msg, "Suggestions:")
}

func TestError_SuggestionsAndCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeAPIUnreachable, "could not reach the Steeple API", cause).
		WithSuggestion("Check your network connection")

	msg := err.Error()
	assert.Contains(t, msg, "connection refused")
	assert.Contains(t, msg, "Suggestions:")
	assert.Contains(t, msg, "Check your network connection")
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeAPIServerError, "server error", cause)

	assert.True(t, stderrors.Is(err, cause))

	var steepleErr *SteepleError
	require.True(t, stderrors.As(err, &steepleErr))
	assert.Equal(t, ErrCodeAPIServerError, steepleErr.Code)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeAuthRequired, NewAuthRequiredError("token expired").Code)
	assert.Equal(t, ErrCodeForbidden, NewForbiddenError("the audit log").Code)
	assert.Equal(t, ErrCodeLoginFailed, NewLoginFailedError(nil).Code)

	// Constructors come with actionable suggestions baked in.
	assert.NotEmpty(t, NewAuthRequiredError("no token").Suggestions)
}
