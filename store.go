package foodsense

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/singleflight"
)

// AuthStore is the in-memory source of truth for the client session and the
// only writer of Storage. Every mutation keeps the invariant that the
// persisted token/user pair and the published AuthState flip together.
//
// Teardown is idempotent per session epoch: each time a session is created
// or cleared the epoch advances, and a 401-triggered invalidation only acts
// when the session it observed is still current. Concurrent 401s therefore
// collapse into one storage clear and one redirect command.
type AuthStore struct {
	mu     sync.Mutex
	status SessionStatus
	state  AuthState
	epoch  uint64
	token  string

	storage   Storage
	client    *Client
	loginPath string

	group     singleflight.Group
	redirect  RedirectFunc
	sink      ActivitySink
	inspector TokenInspector
	logger    Logger
	now       func() time.Time
}

// NewAuthStore wires the store to the client's unauthorized hook and starts
// in the pre-bootstrap state. Call Initialize once at application start.
func NewAuthStore(client *Client, storage Storage, cfg Config) *AuthStore {
	s := &AuthStore{
		status:    StatusInit,
		state:     AuthState{Loading: true},
		storage:   storage,
		client:    client,
		loginPath: cfg.GetLoginPath(),
		sink:      noopActivitySink{},
		inspector: noopTokenInspector{},
		logger:    defLogger{},
		now:       time.Now,
	}

	client.OnUnauthorized(s.invalidateSession)
	return s
}

// WithLogger overrides the store logger.
func (s *AuthStore) WithLogger(logger Logger) *AuthStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting session events.
func (s *AuthStore) WithActivitySink(sink ActivitySink) *AuthStore {
	s.sink = normalizeActivitySink(sink)
	return s
}

// WithRedirectHandler sets the navigation command executor used by the
// teardown path. Without one, teardown still clears the session and only
// logs the redirect it would have issued.
func (s *AuthStore) WithRedirectHandler(fn RedirectFunc) *AuthStore {
	s.redirect = fn
	return s
}

// WithTokenInspector enables the local expiry peek during bootstrap.
func (s *AuthStore) WithTokenInspector(inspector TokenInspector) *AuthStore {
	if inspector != nil {
		s.inspector = inspector
	}
	return s
}

// WithClock injects a custom clock (useful for tests).
func (s *AuthStore) WithClock(clock func() time.Time) *AuthStore {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Status returns the current lifecycle phase.
func (s *AuthStore) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns a copy of the published auth state.
func (s *AuthStore) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AuthState{
		User:            s.state.User.Clone(),
		IsAuthenticated: s.state.IsAuthenticated,
		Loading:         s.state.Loading,
	}
}

// IsAdmin reports whether the current user holds the admin role. False when
// anonymous.
func (s *AuthStore) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User != nil && s.state.User.Role == RoleAdmin
}

// Initialize reconstructs the session from Storage: a persisted token is
// validated against the identity endpoint and the server's profile wins;
// any failure clears Storage and settles anonymous. Concurrent and repeated
// calls coalesce into one validation; once settled, Initialize is a no-op.
// Bootstrap failures are recovered locally and never returned to the caller.
func (s *AuthStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	switch s.status {
	case StatusInit:
		if err := s.transitionLocked(StatusLoading); err != nil {
			s.mu.Unlock()
			return err
		}
	case StatusLoading:
		// join the in-flight bootstrap below
	default:
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err, _ := s.group.Do("bootstrap", func() (any, error) {
		return nil, s.bootstrap(ctx)
	})
	return err
}

func (s *AuthStore) bootstrap(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusLoading {
		// a previous bootstrap settled between the caller's status check and
		// its group.Do entry; there is nothing left to validate
		s.mu.Unlock()
		return nil
	}
	epoch := s.epoch
	s.mu.Unlock()

	session, err := s.storage.Read(ctx)
	if err != nil {
		s.logger.Warn("bootstrap storage read failed: %v", err)
		s.settleAnonymous(ctx, epoch, "storage unreadable")
		return nil
	}

	if session == nil {
		s.settleAnonymous(ctx, epoch, "no persisted session")
		return nil
	}

	if s.inspector.Expired(session.Token, s.now()) {
		s.clearStorageIfCurrent(ctx, epoch)
		s.settleAnonymous(ctx, epoch, "token expired")
		return nil
	}

	user, err := s.client.Me(withBootstrapScope(ctx))
	if err != nil {
		s.logger.Info("bootstrap validation rejected: %v", err)
		s.clearStorageIfCurrent(ctx, epoch)
		s.settleAnonymous(ctx, epoch, "validation failed")
		return nil
	}

	s.mu.Lock()
	if s.epoch != epoch || s.status != StatusLoading {
		// logout/login raced the bootstrap; their outcome stands
		s.mu.Unlock()
		return nil
	}
	if err := s.storage.Write(ctx, session.Token, user); err != nil {
		s.logger.Error("bootstrap re-persist failed: %v", err)
		if cerr := s.storage.Clear(ctx); cerr != nil {
			s.logger.Error("storage clear failed: %v", cerr)
		}
		s.status = StatusAnonymous
		s.state = AuthState{Loading: false}
		s.mu.Unlock()
		s.emit(ctx, ActivityEventBootstrapSettled, 0, map[string]any{
			"outcome": string(StatusAnonymous),
			"reason":  "persist failed",
		})
		return nil
	}
	s.status = StatusAuthenticated
	s.state = AuthState{User: user.Clone(), IsAuthenticated: true, Loading: false}
	s.token = session.Token
	s.mu.Unlock()

	s.emit(ctx, ActivityEventBootstrapSettled, user.ID, map[string]any{
		"outcome": string(StatusAuthenticated),
	})
	return nil
}

func (s *AuthStore) settleAnonymous(ctx context.Context, epoch uint64, reason string) {
	s.mu.Lock()
	if s.epoch != epoch || s.status != StatusLoading {
		s.mu.Unlock()
		return
	}
	s.status = StatusAnonymous
	s.state = AuthState{Loading: false}
	s.mu.Unlock()

	s.emit(ctx, ActivityEventBootstrapSettled, 0, map[string]any{
		"outcome": string(StatusAnonymous),
		"reason":  reason,
	})
}

// Login exchanges credentials for a session. On success the token and
// profile are persisted and the authenticated state published; on failure
// the state is left untouched and the error returned for display.
func (s *AuthStore) Login(ctx context.Context, email, password string) (*UserProfile, error) {
	res, err := s.client.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		s.emit(ctx, ActivityEventLoginFailure, 0, map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	user, err := s.adoptSession(ctx, res)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ActivityEventLoginSuccess, user.ID, map[string]any{"email": email})
	return user, nil
}

// Register creates an account and logs it in, with the same contract as
// Login.
func (s *AuthStore) Register(ctx context.Context, email, password, fullName string) (*UserProfile, error) {
	res, err := s.client.Register(ctx, RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		s.emit(ctx, ActivityEventRegisterFailure, 0, map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	user, err := s.adoptSession(ctx, res)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ActivityEventRegisterSuccess, user.ID, map[string]any{"email": email})
	return user, nil
}

func (s *AuthStore) adoptSession(ctx context.Context, res *TokenResponse) (*UserProfile, error) {
	if res == nil || res.AccessToken == "" || res.User == nil {
		return nil, goerrors.New("malformed token response", goerrors.CategoryInternal).
			WithTextCode(textCodeRemoteError)
	}

	s.mu.Lock()
	if !canTransition(s.status, StatusAuthenticated) {
		from := s.status
		s.mu.Unlock()
		return nil, invalidTransition(from, StatusAuthenticated)
	}
	if err := s.storage.Write(ctx, res.AccessToken, res.User); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.epoch++
	s.status = StatusAuthenticated
	s.state = AuthState{User: res.User.Clone(), IsAuthenticated: true, Loading: false}
	s.token = res.AccessToken
	s.mu.Unlock()

	return res.User.Clone(), nil
}

// Logout clears Storage and publishes the anonymous state. It is
// unconditional and idempotent: calling it while already anonymous is a
// no-op that still reports success.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	var userID int64
	if s.state.User != nil {
		userID = s.state.User.ID
	}
	from := s.status
	clearErr := s.storage.Clear(ctx)
	s.epoch++
	// unconditional by contract, so this bypasses the transition table
	s.status = StatusAnonymous
	s.state = AuthState{Loading: false}
	s.token = ""
	s.mu.Unlock()

	s.emit(ctx, ActivityEventLogout, userID, map[string]any{"from": string(from)})
	return clearErr
}

// invalidateSession is the 401 teardown registered with the client. It
// acts only when the token the failed request carried is still the current
// session's token: later 401s from the same (now cleared) session are
// no-ops, and a 401 resolving after logout plus re-login must not tear
// down the replacement session.
func (s *AuthStore) invalidateSession(ctx context.Context, token string) {
	s.mu.Lock()
	if s.status != StatusAuthenticated || token == "" || token != s.token {
		s.mu.Unlock()
		return
	}
	var userID int64
	if s.state.User != nil {
		userID = s.state.User.ID
	}
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Error("teardown storage clear failed: %v", err)
	}
	s.epoch++
	s.status = StatusAnonymous
	s.state = AuthState{Loading: false}
	s.token = ""
	redirect := s.redirect
	target := s.loginPath
	s.mu.Unlock()

	s.emit(ctx, ActivityEventSessionTeardown, userID, nil)

	if redirect != nil {
		redirect(target)
	} else {
		s.logger.Info("session torn down, redirect to %s", target)
	}
}

// UpdateUser sends a partial profile update, re-persists the profile the
// service returns, and republishes the state. It fails with ErrNoSession
// while anonymous; a response that resolves after the session was torn down
// is dropped with ErrStaleSession.
func (s *AuthStore) UpdateUser(ctx context.Context, update UserUpdate) (*UserProfile, error) {
	s.mu.Lock()
	if s.status != StatusAuthenticated {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	epoch := s.epoch
	s.mu.Unlock()

	user, err := s.client.UpdateMe(ctx, update)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.epoch != epoch || s.status != StatusAuthenticated {
		s.mu.Unlock()
		return nil, ErrStaleSession
	}
	session, err := s.storage.Read(ctx)
	if err != nil || session == nil {
		s.mu.Unlock()
		return nil, ErrStaleSession
	}
	if err := s.storage.Write(ctx, session.Token, user); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = AuthState{User: user.Clone(), IsAuthenticated: true, Loading: false}
	s.mu.Unlock()

	s.emit(ctx, ActivityEventProfileUpdated, user.ID, nil)
	return user.Clone(), nil
}

// ChangePassword forwards the password change. It requires an authenticated
// session and never alters local state.
func (s *AuthStore) ChangePassword(ctx context.Context, current, updated string) error {
	s.mu.Lock()
	authenticated := s.status == StatusAuthenticated
	s.mu.Unlock()
	if !authenticated {
		return ErrNoSession
	}

	return s.client.ChangePassword(ctx, ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     updated,
	})
}

func (s *AuthStore) transitionLocked(to SessionStatus) error {
	if !canTransition(s.status, to) {
		return invalidTransition(s.status, to)
	}
	s.status = to
	return nil
}

// clearStorageIfCurrent clears persisted state only while the session the
// bootstrap observed is still the current one, so a racing login's freshly
// written session is never wiped.
func (s *AuthStore) clearStorageIfCurrent(ctx context.Context, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Error("storage clear failed: %v", err)
	}
}

func (s *AuthStore) emit(ctx context.Context, eventType ActivityEventType, userID int64, meta map[string]any) {
	event := stampActivityEvent(ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  meta,
	}, s.now)

	if err := s.sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink error: %v", err)
	}
}
