package database

import (
	"context"
	"errors"
)

var (
	// ErrEmailTaken is returned when a user with the same email already exists.
	ErrEmailTaken = errors.New("email is already in use")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// DB is the record store for users.
type DB interface {
	// CreateUser persists a new user. The email must not be in use yet.
	CreateUser(ctx context.Context, username, email string) (*User, error)
	// GetAllUsers returns every user ordered by id.
	GetAllUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
	// GetNewestUser returns the most recently created user.
	GetNewestUser(ctx context.Context) (*User, error)
	Close() error
}
