// Package session holds who is logged in. A Session is created by login or
// register, passed explicitly to whatever needs the user id or token, and
// cleared by logout.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrNoSession = errors.New("not logged in")

type Session struct {
	UserID    string    `yaml:"user_id"`
	Username  string    `yaml:"username"`
	Token     string    `yaml:"token,omitempty"`
	StartedAt time.Time `yaml:"started_at"`
}

// New builds a session from the numeric id the service returns. The id is
// kept in its string form, which is what travels in query strings.
func New(userID int64, username, token string) Session {
	return Session{
		UserID:    strconv.FormatInt(userID, 10),
		Username:  username,
		Token:     token,
		StartedAt: time.Now().UTC(),
	}
}

func (s Session) Valid() bool { return s.UserID != "" }

type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileStore keeps the session in a YAML file readable only by its owner.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("session: failed to read %s: %w", f.path, err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("session: failed to parse %s: %w", f.path, err)
	}
	if !s.Valid() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (f *FileStore) Save(s Session) error {
	if !s.Valid() {
		return errors.New("session: user id is required")
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session: failed to create directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: failed to write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("session: failed to write: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: failed to remove %s: %w", f.path, err)
	}
	return nil
}

type MemoryStore struct {
	mu      sync.Mutex
	current *Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Session{}, ErrNoSession
	}
	return *m.current, nil
}

func (m *MemoryStore) Save(s Session) error {
	if !s.Valid() {
		return errors.New("session: user id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}
