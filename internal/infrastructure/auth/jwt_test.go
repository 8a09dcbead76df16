package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	userport "github.com/20mouhcine/EmsiConnect/internal/repository/port"
)

const testSecret = "test-secret"

type fakeUsers struct {
	users map[int64]*userport.User
}

func (f *fakeUsers) FindByID(ctx context.Context, id int64) (*userport.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userport.ErrUserNotFound
	}
	return u, nil
}

func signToken(t *testing.T, secret string, userID int64, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newVerifier() *JWTVerifier {
	return NewJWTVerifier(testSecret, &fakeUsers{users: map[int64]*userport.User{
		42: {ID: 42, Username: "amine", Email: "amine@emsi.ma"},
	}})
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	req := require.New(t)
	v := newVerifier()

	id, err := v.Verify(context.Background(), signToken(t, testSecret, 42, time.Hour))
	req.NoError(err)
	req.Equal(int64(42), id.UserID)
	req.Equal("amine", id.Username)
}

func TestJWTVerifier_EmptyToken(t *testing.T) {
	v := newVerifier()
	_, err := v.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifier_WrongSignature(t *testing.T) {
	v := newVerifier()
	_, err := v.Verify(context.Background(), signToken(t, "other-secret", 42, time.Hour))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	v := newVerifier()
	_, err := v.Verify(context.Background(), signToken(t, testSecret, 42, -time.Minute))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifier_UnknownUser(t *testing.T) {
	v := newVerifier()
	_, err := v.Verify(context.Background(), signToken(t, testSecret, 999, time.Hour))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifier_MissingUserIDClaim(t *testing.T) {
	req := require.New(t)
	v := newVerifier()

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	req.NoError(err)

	_, err = v.Verify(context.Background(), token)
	req.ErrorIs(err, ErrInvalidToken)
}
