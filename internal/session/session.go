// Package session persists the logged-in user and bearer token between CLI
// invocations in a TOML file under the user's state directory.
package session

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/alfredjeanlab/granja/internal/model"
)

// DefaultPath returns ~/.local/state/granja/session.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "granja", "session.toml"), nil
}

// Store reads and writes one session file.
type Store struct {
	path string
}

// NewStore returns a store for path, or for DefaultPath when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "resolve session path")
		}
		path = p
	}
	return &Store{path: path}, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Load returns the stored session, or nil when nobody is logged in.
func (s *Store) Load() (*model.Session, error) {
	var sess model.Session
	if _, err := toml.DecodeFile(s.path, &sess); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read session %s", s.path)
	}
	if sess.Token == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save writes sess with owner-only permissions.
func (s *Store) Save(sess *model.Session) error {
	if sess == nil || sess.Token == "" {
		return errors.New("refusing to save a session without token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "open session file")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(sess); err != nil {
		return errors.Wrap(err, "write session")
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}
