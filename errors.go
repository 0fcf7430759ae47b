package foodsense

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	textCodeSessionRejected    = "AUTH_SESSION_REJECTED"
	textCodeInvalidPayload     = "AUTH_INVALID_PAYLOAD"
	textCodeNoSession          = "AUTH_NO_SESSION"
	textCodeStaleSession       = "AUTH_STALE_SESSION"
	textCodeNetwork            = "AUTH_NETWORK"
	textCodeRemoteError        = "AUTH_REMOTE_ERROR"
)

// ErrInvalidCredentials is returned when the login or register call itself
// is rejected by the service. It is surfaced to the caller for display; the
// auth state is left unchanged.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrSessionRejected is the 401 on any authenticated call other than the
// auth entry points. It is consumed globally by the teardown path and never
// shown as a form error.
var ErrSessionRejected = goerrors.New("session rejected by service", goerrors.CategoryAuth).
	WithTextCode(textCodeSessionRejected).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoSession is returned when an operation that requires an authenticated
// session (UpdateUser, ChangePassword) is invoked while anonymous.
var ErrNoSession = goerrors.New("no active session", goerrors.CategoryConflict).
	WithTextCode(textCodeNoSession).
	WithCode(goerrors.CodeConflict)

// ErrStaleSession is returned when a response resolves after the session it
// was issued under has been torn down; its effects are dropped.
var ErrStaleSession = goerrors.New("session invalidated while request was in flight", goerrors.CategoryConflict).
	WithTextCode(textCodeStaleSession).
	WithCode(goerrors.CodeConflict)

func invalidPayloadError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid payload").
		WithTextCode(textCodeInvalidPayload).
		WithCode(goerrors.CodeBadRequest)
}

func networkError(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, msg).
		WithTextCode(textCodeNetwork)
}

func remoteError(status int, msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryInternal).
		WithTextCode(textCodeRemoteError).
		WithCode(status)
}

// cloneWithMetadata attaches metadata to a copy of a sentinel. WithMetadata
// mutates its receiver, so the shared sentinel must never receive it directly.
func cloneWithMetadata(sentinel *goerrors.Error, meta map[string]any) error {
	clone := sentinel.Clone()
	if clone == nil {
		return sentinel
	}
	clone.Source = sentinel
	return clone.WithMetadata(meta)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsInvalidCredentialsError reports whether err is a rejected login/register.
func IsInvalidCredentialsError(err error) bool {
	return hasTextCode(err, textCodeInvalidCredentials)
}

// IsValidationError reports whether err carries field-level validation detail.
func IsValidationError(err error) bool {
	return hasTextCode(err, textCodeInvalidPayload)
}

// IsNoSessionError reports whether err was caused by operating anonymously.
func IsNoSessionError(err error) bool {
	return hasTextCode(err, textCodeNoSession)
}

// IsNetworkError reports whether err means the service was unreachable.
func IsNetworkError(err error) bool {
	return hasTextCode(err, textCodeNetwork)
}

// IsStaleSessionError reports whether err means the session was torn down
// while the request was in flight.
func IsStaleSessionError(err error) bool {
	return hasTextCode(err, textCodeStaleSession)
}

// IsSessionRejectedError reports whether err is a 401 on an authenticated call.
func IsSessionRejectedError(err error) bool {
	return hasTextCode(err, textCodeSessionRejected)
}
