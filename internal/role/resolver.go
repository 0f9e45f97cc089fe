// Package role derives the caller's company role and the capabilities
// it unlocks.
//
// The role comes from cross-referencing the caller's identity against
// the company member list, which is authoritative for every sensitive
// gate. The coarse is_admin flag on the identity response is only a
// hint: the resolver caches it into the session store so navigation
// can show the admin entry without waiting, but no screen is admitted
// on the hint alone.
package role

import (
	"github.com/steeplefin/steeple/internal/errors"
	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/session"
)

// Role is a company role string as reported by the member list.
type Role string

const (
	Owner   Role = "Owner"
	Admin   Role = "Admin"
	Member  Role = "Member"
	Analyst Role = "Analyst"

	// Unknown is the lowest-privilege sentinel: the caller was not
	// found in the member list, or resolution failed.
	Unknown Role = ""
)

// CanViewAuditLog reports whether the role unlocks the audit log and
// admin-level UI.
func (r Role) CanViewAuditLog() bool {
	return r == Owner || r == Admin
}

// CanManageBilling reports whether the role unlocks the subscription
// management affordance. The affordance itself is rendered disabled
// until billing ships, but only Owners see it at all.
func (r Role) CanManageBilling() bool {
	return r == Owner
}

// API is the slice of the platform client the resolver needs.
type API interface {
	CurrentUser() (*platform.Identity, error)
	GetCompanyUsers() ([]platform.CompanyUser, error)
}

// Resolution is the outcome of a successful resolve.
type Resolution struct {
	Identity *platform.Identity
	Members  []platform.CompanyUser
	Role     Role
}

// Resolver fetches identity and membership and cross-references them.
type Resolver struct {
	api   API
	store session.Store
}

// NewResolver creates a resolver over the given API and session store.
func NewResolver(api API, store session.Store) *Resolver {
	return &Resolver{api: api, store: store}
}

// Resolve performs the two reads in order: identity first, then the
// member list, because the caller's own identifier must be known
// before the list can be interpreted. On success it refreshes the
// session store's admin hint from the identity response.
//
// Failures map onto the console's error taxonomy: a 401 from either
// read becomes an auth-required error (callers redirect to login), a
// 403 becomes a forbidden error (callers redirect to the dashboard),
// and anything else is passed through as an upstream failure with the
// role left unresolved.
func (r *Resolver) Resolve() (*Resolution, error) {
	me, err := r.api.CurrentUser()
	if err != nil {
		return nil, r.classify(err)
	}

	// Advisory cache for fast synchronous reads by navigation. A
	// failed write only loses the shortcut, never correctness.
	_ = r.store.SetAdminHint(me.IsAdmin)

	members, err := r.api.GetCompanyUsers()
	if err != nil {
		return nil, r.classify(err)
	}

	return &Resolution{
		Identity: me,
		Members:  members,
		Role:     Lookup(me.UserID, members),
	}, nil
}

func (r *Resolver) classify(err error) error {
	switch {
	case platform.IsAuthRequired(err):
		return errors.Wrap(errors.ErrCodeAuthRequired, "session rejected by the platform", err).
			WithSuggestion("Run 'steeple auth login' to sign in again")
	case platform.IsForbidden(err):
		return errors.Wrap(errors.ErrCodeForbidden, "the platform denied the request", err)
	default:
		return errors.Wrap(errors.ErrCodeRoleUnresolved, "could not resolve your company role", err)
	}
}

// Lookup finds userID in the member list and returns its role. First
// match wins; identifiers are expected unique. A missing entry is
// Unknown, the lowest-privilege tier.
func Lookup(userID int64, members []platform.CompanyUser) Role {
	for _, m := range members {
		if m.ID == userID {
			return Role(m.Role)
		}
	}
	return Unknown
}
