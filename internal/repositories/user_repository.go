package repositories

import (
	"context"
	"errors"

	"amethyst/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an insert violates the unique email index.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// WithConn runs fn against a repository pinned to a single pooled
	// connection. The connection is released when fn returns.
	WithConn(ctx context.Context, fn func(repo UserRepository) error) error
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfilePicture(ctx context.Context, id uint, picture []byte) error
}
