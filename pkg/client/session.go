// Package client is the Go SDK for the account service API. It provides a
// typed client for every endpoint and an explicit Session object carrying
// the bearer credential; no ambient or global authentication state.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Session holds the bearer credential and account projection of one
// authenticated identity. Its lifecycle is empty → established → cleared;
// every Client call takes the session it should act under.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`

	store SessionStore
}

// SessionStore persists a session across process restarts.
type SessionStore interface {
	Save(s *Session) error
	Load(s *Session) error
	Clear() error
}

// NewSession returns a session backed by store, pre-loaded with any
// previously persisted credential. A nil store keeps the session in memory
// only.
func NewSession(store SessionStore) (*Session, error) {
	s := &Session{store: store}
	if store != nil {
		if err := store.Load(s); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load session: %w", err)
		}
	}
	return s, nil
}

// Establish stores the credential and account, persisting them when a store
// is configured.
func (s *Session) Establish(token string, user *User) error {
	s.Token = token
	s.User = user
	if s.store != nil {
		return s.store.Save(s)
	}
	return nil
}

// Clear removes the credential and account from memory and from the store.
func (s *Session) Clear() error {
	s.Token = ""
	s.User = nil
	if s.store != nil {
		return s.store.Clear()
	}
	return nil
}

// Active reports whether both a credential and an account are present.
func (s *Session) Active() bool {
	return s.Token != "" && s.User != nil
}

// RoleSatisfies reports whether the session's role is one of roles. An
// inactive session never satisfies.
func (s *Session) RoleSatisfies(roles ...Role) bool {
	if !s.Active() {
		return false
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}

// FileSessionStore persists the session as a JSON file.
type FileSessionStore struct {
	Path string
}

// DefaultSessionPath returns the conventional session file location under
// the user's config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "accountctl", "session.json"), nil
}

func (f *FileSessionStore) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, raw, 0o600)
}

func (f *FileSessionStore) Load(s *Session) error {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, s)
}

func (f *FileSessionStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
