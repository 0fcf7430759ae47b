package foodsense

import (
	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidTransition = "INVALID_SESSION_STATE_TRANSITION"

// ErrInvalidTransition is returned when a requested session status change is
// not allowed.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryConflict).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeConflict)

// SessionStatus is the lifecycle phase of the client session.
type SessionStatus string

const (
	// StatusInit is the pre-bootstrap state at construction.
	StatusInit SessionStatus = "init"
	// StatusLoading covers the bootstrap window; the guard holds rendering
	// decisions while in it.
	StatusLoading SessionStatus = "loading"
	// StatusAuthenticated means a validated session is held.
	StatusAuthenticated SessionStatus = "authenticated"
	// StatusAnonymous means no session is held.
	StatusAnonymous SessionStatus = "anonymous"
)

// sessionTransitions is the allowed transition graph. Loading is only
// reachable from init: login and register are request-scoped and never put
// the store back into the bootstrap phase.
var sessionTransitions = map[SessionStatus]map[SessionStatus]struct{}{
	StatusInit: {
		StatusLoading: {},
	},
	StatusLoading: {
		StatusAuthenticated: {},
		StatusAnonymous:     {},
	},
	StatusAuthenticated: {
		StatusAuthenticated: {}, // profile update, re-login
		StatusAnonymous:     {}, // logout, teardown
	},
	StatusAnonymous: {
		StatusAuthenticated: {}, // login, register
		StatusAnonymous:     {}, // idempotent logout
	},
}

func canTransition(from, to SessionStatus) bool {
	if allowed, ok := sessionTransitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func invalidTransition(from, to SessionStatus) error {
	clone := ErrInvalidTransition.Clone()
	if clone == nil {
		return ErrInvalidTransition
	}
	clone.Source = ErrInvalidTransition
	return clone.WithMetadata(map[string]any{
		"from": from,
		"to":   to,
	})
}
