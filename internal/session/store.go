// Package session holds the client's bearer credential and the cached
// coarse admin hint.
//
// The store is the only mutable state shared between the CLI commands,
// the console screens, and the platform client. It is injected rather
// than looked up ambiently so tests can substitute an in-memory fake.
//
// The admin hint is advisory: it lets navigation show the admin entry
// without waiting for a member-list fetch, but every sensitive gate
// re-derives the role from the company member list (see internal/role).
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store is the session contract consumed by the guard, the role
// resolver, and the UI layers.
type Store interface {
	// Token returns the bearer token, if one is set.
	Token() (string, bool)

	// SetToken records a new bearer token. Called on successful login.
	SetToken(token string) error

	// AdminHint reports the cached coarse admin flag. Advisory only.
	AdminHint() bool

	// SetAdminHint refreshes the cached admin flag from an identity fetch.
	SetAdminHint(isAdmin bool) error

	// Clear removes the token and the admin hint. Called on logout and
	// when a token is deemed invalid.
	Clear() error
}

// fileState is the on-disk shape. IsAdmin is a string to stay readable
// for files written by earlier console versions, which stored "1"/"0"
// or "true" rather than a boolean.
type fileState struct {
	Token   string `json:"token"`
	IsAdmin string `json:"is_admin,omitempty"`
}

// FileStore persists the session under the steeple home directory,
// surviving process restarts the way browser localStorage survives
// page reloads.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by dir/session.json. The
// directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "session.json")}
}

// DefaultDir returns ~/.steeple, falling back to a relative .steeple
// when the home directory cannot be determined.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".steeple"
	}
	return filepath.Join(home, ".steeple")
}

func (s *FileStore) load() fileState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fileState{}
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return fileState{}
	}
	return st
}

func (s *FileStore) save(st fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Token returns the persisted bearer token, if any.
func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.load()
	return st.Token, st.Token != ""
}

// SetToken writes the token, preserving the current admin hint.
func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.load()
	st.Token = token
	return s.save(st)
}

// AdminHint reads the cached admin flag, accepting the legacy
// "1"/"true" encodings. Absent or anything else reads as false.
func (s *FileStore) AdminHint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return parseAdminHint(s.load().IsAdmin)
}

// SetAdminHint records the coarse admin flag next to the token.
func (s *FileStore) SetAdminHint(isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.load()
	if isAdmin {
		st.IsAdmin = "1"
	} else {
		st.IsAdmin = "0"
	}
	return s.save(st)
}

// Clear removes the session file entirely.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func parseAdminHint(raw string) bool {
	switch raw {
	case "1", "true":
		return true
	default:
		return false
	}
}

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.Mutex
	token   string
	isAdmin bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the current token, if any.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// SetToken records a new token.
func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// AdminHint reports the cached admin flag.
func (s *MemoryStore) AdminHint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAdmin
}

// SetAdminHint records the admin flag.
func (s *MemoryStore) SetAdminHint(isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isAdmin = isAdmin
	return nil
}

// Clear removes the token and the admin flag.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.isAdmin = false
	return nil
}
