package foodsense

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// sessionDocument is the on-disk layout: the two storage entries as
// independent fields so a stray single value remains representable and can
// be detected on read.
type sessionDocument struct {
	Token string          `json:"token,omitempty"`
	User  json.RawMessage `json:"user,omitempty"`
}

// FileStorage persists the session as a JSON document on disk, surviving
// process restarts. Writes go through a temp file and rename so readers
// never observe a half-written session.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	logger Logger
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage returns a file-backed store rooted at path. The parent
// directory must exist.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path, logger: defLogger{}}
}

// WithLogger overrides the logger used for cleanup warnings.
func (s *FileStorage) WithLogger(logger Logger) *FileStorage {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Write stores both entries atomically: the document is staged next to the
// target and renamed over it.
func (s *FileStorage) Write(_ context.Context, token string, user *UserProfile) error {
	raw, err := encodeSessionUser(token, user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(sessionDocument{Token: token, User: raw})
}

// Read loads the persisted session. Missing file means no session; a
// partial or corrupt document is cleared and reported as absent.
func (s *FileStorage) Read(_ context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to read session file")
	}

	doc := sessionDocument{}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("session file corrupt, clearing: %v", err)
		return nil, s.remove()
	}

	if doc.Token == "" && len(doc.User) == 0 {
		return nil, s.remove()
	}
	if doc.Token == "" || len(doc.User) == 0 {
		s.logger.Warn("session file holds a stray entry, clearing")
		return nil, s.remove()
	}

	user := &UserProfile{}
	if err := json.Unmarshal(doc.User, user); err != nil {
		s.logger.Warn("session user entry corrupt, clearing: %v", err)
		return nil, s.remove()
	}

	return &Session{Token: doc.Token, User: user}, nil
}

// Clear removes the session file unconditionally.
func (s *FileStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *FileStorage) replace(doc sessionDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to serialize session document")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to stage session file")
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Chmod(0o600)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpName, s.path)
	}
	if err != nil {
		os.Remove(tmpName)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to write session file")
	}
	return nil
}

func (s *FileStorage) remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to clear session file")
	}
	return nil
}
