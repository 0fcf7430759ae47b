package foodsense

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Storage is the durable session persistence contract. Implementations hold
// the bearer token and the serialized user profile as two entries that are
// written and cleared together: Read returns both or neither, and a stray
// single entry is removed rather than surfaced.
type Storage interface {
	Write(ctx context.Context, token string, user *UserProfile) error
	Read(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// Config holds client options
type Config interface {
	GetBaseURL() string
	GetLoginPath() string
	GetHomePath() string
	GetRequestTimeout() time.Duration
}

// RedirectFunc executes a navigation command produced by the session
// teardown path or by a RouteGuard decision. The SDK never navigates on its
// own; it hands the target to the embedding application.
type RedirectFunc func(target string)

// TokenInspector lets the bootstrap rule out a persisted token without a
// network round-trip. Expired must only return true when the token is
// provably unusable; opaque tokens report false and fall through to the
// remote validation.
type TokenInspector interface {
	Expired(token string, now time.Time) bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] FOODSENSE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] FOODSENSE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] FOODSENSE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] FOODSENSE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
