package foodsense

import (
	"context"
	"encoding/json"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

const (
	storageKeyToken = "token"
	storageKeyUser  = "user"
)

var errIncompleteSession = goerrors.New("token and user must both be present", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

func encodeSessionUser(token string, user *UserProfile) ([]byte, error) {
	if token == "" || user == nil {
		return nil, errIncompleteSession
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to serialize user profile")
	}
	return raw, nil
}

func decodeSessionRow(token, userRaw string) (*Session, bool) {
	user := &UserProfile{}
	if err := json.Unmarshal([]byte(userRaw), user); err != nil {
		return nil, false
	}
	return &Session{Token: token, User: user}, true
}

// MemoryStorage is the in-process Storage backend. Contents do not survive a
// restart; it backs tests and ephemeral embedders.
type MemoryStorage struct {
	mu      sync.Mutex
	token   string
	userRaw []byte
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Write stores both entries; neither is visible to readers unless both were
// accepted.
func (s *MemoryStorage) Write(_ context.Context, token string, user *UserProfile) error {
	raw, err := encodeSessionUser(token, user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userRaw = raw
	return nil
}

// Read returns the persisted session, or nil when absent. A stray single
// entry or an undecodable user blob counts as absent and is cleared.
func (s *MemoryStorage) Read(_ context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" && s.userRaw == nil {
		return nil, nil
	}
	if s.token == "" || s.userRaw == nil {
		s.token = ""
		s.userRaw = nil
		return nil, nil
	}

	user := &UserProfile{}
	if err := json.Unmarshal(s.userRaw, user); err != nil {
		s.token = ""
		s.userRaw = nil
		return nil, nil
	}

	return &Session{Token: s.token, User: user}, nil
}

// Clear removes both entries unconditionally.
func (s *MemoryStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userRaw = nil
	return nil
}
