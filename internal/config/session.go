package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Session is widget state remembered between runs.
type Session struct {
	// Open is whether the widget was open on exit.
	Open bool `yaml:"open"`
	// BadgeCount is the unread badge on exit.
	BadgeCount int `yaml:"badge_count,omitempty"`
	// UpdatedAt is when the session was last saved.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// SessionStore loads and saves a Session as YAML.
type SessionStore struct {
	path string
	mu   sync.RWMutex
}

// NewSessionStore creates a session store.
// If path is empty, uses ConfigDir()/session.yaml.
func NewSessionStore(path string) *SessionStore {
	if path == "" {
		path = filepath.Join(ConfigDir(), "session.yaml")
	}
	return &SessionStore{path: path}
}

// Path returns the session file path.
func (s *SessionStore) Path() string {
	return s.path
}

// Load reads the session from disk. The second result is false when no
// session has been saved yet.
func (s *SessionStore) Load() (*Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to read session file: %w", err)
	}

	session := &Session{}
	if err := yaml.Unmarshal(data, session); err != nil {
		return nil, false, fmt.Errorf("failed to parse session file: %w", err)
	}
	if session.BadgeCount < 0 {
		session.BadgeCount = 0
	}
	return session, true, nil
}

// Save writes the session to disk.
func (s *SessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	session.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the session file.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
