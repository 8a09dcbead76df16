package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	userport "github.com/20mouhcine/EmsiConnect/internal/repository/port"
)

// accessClaims is the payload layout issued by the account service:
// HS256-signed, user id under "user_id".
type accessClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 access tokens and resolves the embedded user id
// against the user repository.
type JWTVerifier struct {
	secret []byte
	users  userport.UserRepository
}

func NewJWTVerifier(secret string, users userport.UserRepository) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), users: users}
}

var _ Verifier = (*JWTVerifier)(nil)

func (v *JWTVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}

	user, err := v.users.FindByID(ctx, claims.UserID)
	if err != nil {
		// A stale token for a deleted account is indistinguishable from a bad one.
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Identity{UserID: user.ID, Username: user.Username}, nil
}
