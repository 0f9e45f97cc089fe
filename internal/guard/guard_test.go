package guard

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steeplefin/steeple/internal/session"
)

var now = time.Unix(1_750_000_000, 0)

func tokenWithClaims(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(payload)) + ".sig"
}

func storeWithToken(t *testing.T, tok string) session.Store {
	t.Helper()
	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(tok))
	return store
}

func TestEvaluate_NoToken(t *testing.T) {
	assert.Equal(t, NoToken, Evaluate(session.NewMemoryStore(), now))
}

func TestEvaluate_InvalidToken(t *testing.T) {
	for _, tok := range []string{
		"not-a-jwt",
		"two.parts",
		"a.b.c.d",
		"head.!!!not-base64!!!.sig",
	} {
		store := storeWithToken(t, tok)
		assert.Equal(t, InvalidToken, Evaluate(store, now), "token %q", tok)
	}
}

func TestEvaluate_Expired(t *testing.T) {
	tok := tokenWithClaims(fmt.Sprintf(`{"exp":%d}`, now.Unix()-1))
	assert.Equal(t, Expired, Evaluate(storeWithToken(t, tok), now))

	// exp exactly now counts as expired: the rule is now >= exp.
	tok = tokenWithClaims(fmt.Sprintf(`{"exp":%d}`, now.Unix()))
	assert.Equal(t, Expired, Evaluate(storeWithToken(t, tok), now))
}

func TestEvaluate_NotYetValid(t *testing.T) {
	// nbf in the future blocks even when exp is far out.
	tok := tokenWithClaims(fmt.Sprintf(`{"exp":%d,"nbf":%d}`, now.Unix()+86400, now.Unix()+3600))
	assert.Equal(t, NotYetValid, Evaluate(storeWithToken(t, tok), now))
}

func TestEvaluate_Valid(t *testing.T) {
	tok := tokenWithClaims(fmt.Sprintf(`{"exp":%d}`, now.Unix()+3600))
	assert.Equal(t, Valid, Evaluate(storeWithToken(t, tok), now))

	// No timestamp claims at all is valid.
	tok = tokenWithClaims(`{"sub":"42"}`)
	assert.Equal(t, Valid, Evaluate(storeWithToken(t, tok), now))

	// Expired ordering beats nbf: exp is checked first.
	tok = tokenWithClaims(fmt.Sprintf(`{"exp":%d,"nbf":%d}`, now.Unix()-10, now.Unix()+10))
	assert.Equal(t, Expired, Evaluate(storeWithToken(t, tok), now))
}

func TestEvaluate_NonNumericClaimsIgnored(t *testing.T) {
	tok := tokenWithClaims(fmt.Sprintf(`{"exp":"%d"}`, now.Unix()-1))
	assert.Equal(t, Valid, Evaluate(storeWithToken(t, tok), now))
}

func TestEvaluate_Idempotent(t *testing.T) {
	tok := tokenWithClaims(fmt.Sprintf(`{"exp":%d}`, now.Unix()+3600))
	store := storeWithToken(t, tok)

	first := Evaluate(store, now)
	second := Evaluate(store, now)
	assert.Equal(t, first, second)
}

func TestState_Allows(t *testing.T) {
	assert.True(t, Valid.Allows())
	for _, s := range []State{NoToken, InvalidToken, Expired, NotYetValid} {
		assert.False(t, s.Allows(), s.String())
	}
}
