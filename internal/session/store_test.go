package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_TokenRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.SetToken("abc.def.ghi"))

	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewFileStore(dir)
	require.NoError(t, first.SetToken("tok"))
	require.NoError(t, first.SetAdminHint(true))

	// A fresh store over the same directory sees the same session,
	// the way a page reload sees localStorage.
	second := NewFileStore(dir)
	token, ok := second.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", token)
	assert.True(t, second.AdminHint())
}

func TestFileStore_Clear(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	require.NoError(t, store.SetToken("tok"))
	require.NoError(t, store.SetAdminHint(true))
	require.NoError(t, store.Clear())

	_, ok := store.Token()
	assert.False(t, ok)
	assert.False(t, store.AdminHint())

	// Clearing an already-clear store is not an error.
	require.NoError(t, store.Clear())
}

func TestFileStore_LegacyAdminHintEncodings(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"0", false},
		{"", false},
		{"yes", false},
	}

	for _, tt := range tests {
		dir := t.TempDir()
		payload, err := json.Marshal(fileState{Token: "tok", IsAdmin: tt.raw})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), payload, 0o600))

		store := NewFileStore(dir)
		assert.Equal(t, tt.want, store.AdminHint(), "is_admin=%q", tt.raw)
	}
}

func TestFileStore_SetTokenPreservesAdminHint(t *testing.T) {
	store := NewFileStore(t.TempDir())

	require.NoError(t, store.SetAdminHint(true))
	require.NoError(t, store.SetToken("tok"))

	assert.True(t, store.AdminHint())
}

func TestFileStore_CorruptFileReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	store := NewFileStore(dir)
	_, ok := store.Token()
	assert.False(t, ok)
	assert.False(t, store.AdminHint())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.SetToken("tok"))
	require.NoError(t, store.SetAdminHint(true))

	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", token)
	assert.True(t, store.AdminHint())

	require.NoError(t, store.Clear())
	_, ok = store.Token()
	assert.False(t, ok)
	assert.False(t, store.AdminHint())
}
