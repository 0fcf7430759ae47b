package foodsense

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

type ctxKey int

const ctxKeyBootstrapScope ctxKey = iota

// withBootstrapScope marks a request as session-bootstrap scoped: a 401 is
// the bootstrap's own failure signal and must not fan out into the global
// teardown/redirect path.
func withBootstrapScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyBootstrapScope, true)
}

func isBootstrapScoped(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyBootstrapScope).(bool)
	return v
}

// isAuthEntrypoint reports whether path is one of the unauthenticated auth
// calls. A 401 there means the credentials were rejected and belongs to the
// caller, not to the session teardown.
func isAuthEntrypoint(path string) bool {
	return strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/register")
}

// authTransport attaches the bearer token read from Storage to every
// outbound request and funnels 401 responses into the registered
// invalidation hook. The hook receives the token the request carried, so
// the teardown can ignore 401s issued under a session that has since been
// replaced; concurrent 401s from the current session collapse into a
// single teardown.
type authTransport struct {
	base    http.RoundTripper
	storage Storage
	logger  Logger

	mu           sync.RWMutex
	unauthorized func(ctx context.Context, token string)
}

func newAuthTransport(base http.RoundTripper, storage Storage, logger Logger) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{base: base, storage: storage, logger: logger}
}

func (t *authTransport) setUnauthorizedHook(fn func(ctx context.Context, token string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unauthorized = fn
}

func (t *authTransport) unauthorizedHook() func(ctx context.Context, token string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.unauthorized
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	session, err := t.storage.Read(req.Context())
	if err != nil {
		t.logger.Warn("token lookup failed, sending unauthenticated: %v", err)
	}

	var token string
	if session != nil {
		token = session.Token
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusUnauthorized &&
		!isAuthEntrypoint(req.URL.Path) &&
		!isBootstrapScoped(req.Context()) {
		if hook := t.unauthorizedHook(); hook != nil {
			hook(req.Context(), token)
		}
	}

	return res, nil
}
