// Package guard decides whether a protected screen may render.
//
// The decision is advisory, client-side gating: it reads the session
// store and the token's unverified claims, never contacts the server,
// and exists only to avoid flashing protected UI before an inevitable
// server-side 401. It is re-evaluated on every screen entry and never
// cached.
package guard

import (
	"time"

	"github.com/steeplefin/steeple/internal/session"
	"github.com/steeplefin/steeple/internal/token"
)

// State is the outcome of a guard evaluation.
type State int

const (
	// NoToken means the session store holds no token.
	NoToken State = iota
	// InvalidToken means the token failed to decode.
	InvalidToken
	// Expired means the token's exp claim is in the past.
	Expired
	// NotYetValid means the token's nbf claim is in the future.
	NotYetValid
	// Valid means the protected content may render.
	Valid
)

// String returns a short label for logging.
func (s State) String() string {
	switch s {
	case NoToken:
		return "no_token"
	case InvalidToken:
		return "invalid_token"
	case Expired:
		return "expired"
	case NotYetValid:
		return "not_yet_valid"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Allows reports whether the state permits rendering protected content.
// Every other state resolves to a login redirect.
func (s State) Allows() bool {
	return s == Valid
}

// Evaluate derives the guard state from the session store and the
// given clock reading. It is a pure function of the two: calling it
// twice with no state change in between yields the same state.
func Evaluate(store session.Store, now time.Time) State {
	tok, ok := store.Token()
	if !ok {
		return NoToken
	}

	claims, ok := token.Decode(tok)
	if !ok {
		return InvalidToken
	}

	epoch := now.Unix()
	if exp, ok := claims.ExpiresAt(); ok && epoch >= exp {
		return Expired
	}
	if nbf, ok := claims.NotBefore(); ok && epoch < nbf {
		return NotYetValid
	}
	return Valid
}
