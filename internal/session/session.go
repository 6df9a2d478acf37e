// Package session persists the authenticated operator's bearer token
// between invocations. It replaces ambient global auth state with an
// explicitly constructed object injected where a token is needed.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Session holds the current bearer token and the operator it belongs
// to, backed by a file under the user's config directory.
type Session struct {
	path string

	mu       sync.RWMutex
	token    string
	username string
}

type payload struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
}

// Load reads a persisted session from path. A missing file yields an
// empty, logged-out session.
func Load(path string) (*Session, error) {
	s := &Session{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", path, err)
	}
	s.token = p.Token
	s.username = p.Username
	return s, nil
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the operator the token was issued to.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// LoggedIn reports whether a token is present.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Establish stores a fresh token and persists it. Token files are kept
// owner-readable only.
func (s *Session) Establish(token, username string) error {
	s.mu.Lock()
	s.token = token
	s.username = username
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: prepare %s: %w", s.path, err)
	}
	raw, err := json.Marshal(payload{Token: token, Username: username})
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	return nil
}

// Clear tears the session down and removes the persisted token.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}
