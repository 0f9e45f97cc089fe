// Package token decodes bearer token claims without verifying the
// signature.
//
// The decode is a UX convenience: it lets the console notice an
// expired or malformed token before issuing a request that would fail
// with 401 anyway. The server enforces real authorization on every
// call, so nothing here is a security boundary.
package token

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a token. Only the registered
// timestamp claims are interpreted; everything else is opaque to the
// console.
type Claims struct {
	raw map[string]any
}

var segmentDecoder = jwt.NewParser()

// Decode parses a compact three-segment token and returns its claims.
// The second result is false when the token does not have exactly
// three dot-separated segments, the payload segment is not valid
// base64url, or the decoded payload is not a JSON object. Decode
// never panics and performs no network or signature work.
func Decode(tokenString string) (Claims, bool) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Claims{}, false
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Claims{}, false
	}

	return Claims{raw: raw}, true
}

// ExpiresAt returns the exp claim in epoch seconds. The second result
// is false when the claim is absent or not numeric; a non-numeric exp
// does not invalidate the token, it simply carries no expiry.
func (c Claims) ExpiresAt() (int64, bool) {
	return c.numeric("exp")
}

// NotBefore returns the nbf claim in epoch seconds, with the same
// absence semantics as ExpiresAt.
func (c Claims) NotBefore() (int64, bool) {
	return c.numeric("nbf")
}

// Get returns an arbitrary claim value.
func (c Claims) Get(name string) (any, bool) {
	v, ok := c.raw[name]
	return v, ok
}

func (c Claims) numeric(name string) (int64, bool) {
	v, ok := c.raw[name]
	if !ok {
		return 0, false
	}
	// encoding/json decodes JSON numbers into float64.
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
