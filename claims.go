package foodsense

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTInspector peeks at a persisted token's exp claim without verifying the
// signature. It only short-circuits the bootstrap: a token with a past exp
// is guaranteed to be rejected by the service, so the round-trip is skipped
// and the session cleared directly. Tokens that do not parse as JWTs, or
// carry no exp, are treated as live and validated remotely as usual.
type JWTInspector struct {
	parser *jwt.Parser
}

var _ TokenInspector = (*JWTInspector)(nil)

// NewJWTInspector returns the default inspector.
func NewJWTInspector() *JWTInspector {
	return &JWTInspector{parser: jwt.NewParser()}
}

// Expired implements TokenInspector.
func (i *JWTInspector) Expired(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Time.Before(now)
}

type noopTokenInspector struct{}

func (noopTokenInspector) Expired(string, time.Time) bool {
	return false
}
