package auth

import (
	"context"
	"errors"
)

// Identity is an authenticated user resolved from a bearer credential.
type Identity struct {
	UserID   int64
	Username string
}

// ErrInvalidToken covers every rejection cause: missing, malformed, expired,
// bad signature, or no matching account. Callers must fail closed on it;
// there is no anonymous identity.
var ErrInvalidToken = errors.New("auth: invalid token")

// Verifier validates a bearer token and resolves it to a user identity.
// Used at connection-establishment time only.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
