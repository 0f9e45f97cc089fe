package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	steeperr "github.com/steeplefin/steeple/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"auth required", steeperr.NewAuthRequiredError("no token"), AuthError},
		{"expired token", steeperr.New(steeperr.ErrCodeTokenExpired, "token expired"), AuthError},
		{"forbidden", steeperr.NewForbiddenError("the audit log"), Forbidden},
		{"unreachable", steeperr.NewAPIUnreachableError("http://localhost:8000", errors.New("refused")), NetworkError},
		{"role unresolved upstream", steeperr.Wrap(steeperr.ErrCodeRoleUnresolved, "could not resolve role", errors.New("status 500")), GeneralError},
		{"role unresolved offline", steeperr.Wrap(steeperr.ErrCodeRoleUnresolved, "could not resolve role",
			steeperr.NewAPIUnreachableError("http://localhost:8000", errors.New("refused"))), NetworkError},
		{"wrapped coded error", fmt.Errorf("running command: %w", steeperr.NewForbiddenError("admin")), Forbidden},
		{"plain unauthorized", errors.New("server said: unauthorized"), AuthError},
		{"plain network", errors.New("dial tcp: connection refused"), NetworkError},
		{"usage", errors.New("unknown command \"audti\""), UsageError},
		{"anything else", errors.New("boom"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.err))
		})
	}
}
