package repository

import (
	"context"
	"errors"
)

// User is the minimal account projection the messaging core needs.
type User struct {
	ID       int64
	Username string
	Email    string
}

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user: not found")

// UserRepository resolves account identities. Account management itself lives
// outside this service.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
}
