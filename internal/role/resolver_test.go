package role

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steeplefin/steeple/internal/errors"
	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/session"
)

// fakeAPI scripts the two resolver reads.
type fakeAPI struct {
	identity    *platform.Identity
	identityErr error
	members     []platform.CompanyUser
	membersErr  error

	calls []string
}

func (f *fakeAPI) CurrentUser() (*platform.Identity, error) {
	f.calls = append(f.calls, "me")
	return f.identity, f.identityErr
}

func (f *fakeAPI) GetCompanyUsers() ([]platform.CompanyUser, error) {
	f.calls = append(f.calls, "users")
	return f.members, f.membersErr
}

func TestResolve_MatchesOwnIdentifier(t *testing.T) {
	api := &fakeAPI{
		identity: &platform.Identity{UserID: 7, Email: "a@example.com"},
		members: []platform.CompanyUser{
			{ID: 7, Role: "Admin"},
			{ID: 9, Role: "Member"},
		},
	}
	store := session.NewMemoryStore()

	res, err := NewResolver(api, store).Resolve()
	require.NoError(t, err)
	assert.Equal(t, Admin, res.Role)

	// Identity is fetched before the member list, never raced.
	assert.Equal(t, []string{"me", "users"}, api.calls)
}

func TestResolve_NotInMemberList(t *testing.T) {
	api := &fakeAPI{
		identity: &platform.Identity{UserID: 7},
		members:  []platform.CompanyUser{{ID: 9, Role: "Member"}},
	}

	res, err := NewResolver(api, session.NewMemoryStore()).Resolve()
	require.NoError(t, err)
	assert.Equal(t, Unknown, res.Role)
	assert.False(t, res.Role.CanViewAuditLog())
}

func TestResolve_RefreshesAdminHint(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetAdminHint(true))

	api := &fakeAPI{
		identity: &platform.Identity{UserID: 7, IsAdmin: false},
		members:  []platform.CompanyUser{{ID: 7, Role: "Member"}},
	}

	_, err := NewResolver(api, store).Resolve()
	require.NoError(t, err)
	assert.False(t, store.AdminHint(), "stale hint must be overwritten by the identity fetch")
}

func TestResolve_AuthRequiredFromEitherRead(t *testing.T) {
	unauthorized := &platform.APIError{StatusCode: 401, Message: "unauthorized"}

	for name, api := range map[string]*fakeAPI{
		"identity": {identityErr: unauthorized},
		"members": {
			identity:   &platform.Identity{UserID: 7},
			membersErr: unauthorized,
		},
	} {
		_, err := NewResolver(api, session.NewMemoryStore()).Resolve()
		require.Error(t, err, name)

		var coded *errors.SteepleError
		require.True(t, stderrors.As(err, &coded), name)
		assert.Equal(t, errors.ErrCodeAuthRequired, coded.Code, name)
	}
}

func TestResolve_ForbiddenIsNotAuthRequired(t *testing.T) {
	api := &fakeAPI{
		identity:   &platform.Identity{UserID: 7},
		membersErr: &platform.APIError{StatusCode: 403, Message: "forbidden"},
	}

	_, err := NewResolver(api, session.NewMemoryStore()).Resolve()
	require.Error(t, err)

	var coded *errors.SteepleError
	require.True(t, stderrors.As(err, &coded))
	assert.Equal(t, errors.ErrCodeForbidden, coded.Code)
}

func TestResolve_UpstreamFailureLeavesRoleUnresolved(t *testing.T) {
	api := &fakeAPI{
		identity:   &platform.Identity{UserID: 7},
		membersErr: &platform.APIError{StatusCode: 500, Message: "boom"},
	}

	res, err := NewResolver(api, session.NewMemoryStore()).Resolve()
	require.Error(t, err)
	assert.Nil(t, res)

	var coded *errors.SteepleError
	require.True(t, stderrors.As(err, &coded))
	assert.Equal(t, errors.ErrCodeRoleUnresolved, coded.Code)
}

func TestLookup_FirstMatchWins(t *testing.T) {
	members := []platform.CompanyUser{
		{ID: 7, Role: "Analyst"},
		{ID: 7, Role: "Owner"},
	}
	assert.Equal(t, Analyst, Lookup(7, members))
}

func TestCapabilities(t *testing.T) {
	assert.True(t, Owner.CanViewAuditLog())
	assert.True(t, Admin.CanViewAuditLog())
	assert.False(t, Member.CanViewAuditLog())
	assert.False(t, Analyst.CanViewAuditLog())
	assert.False(t, Unknown.CanViewAuditLog())

	assert.True(t, Owner.CanManageBilling())
	assert.False(t, Admin.CanManageBilling())
}
