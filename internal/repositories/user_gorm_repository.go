package repositories

import (
	"context"
	"errors"
	"fmt"

	"amethyst/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// WithConn pins one connection from the pool for the duration of fn.
func (r *GORMUserRepository) WithConn(ctx context.Context, fn func(repo UserRepository) error) error {
	return r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(&GORMUserRepository{db: conn})
	})
}

// Create inserts a new user and fills in its generated ID.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by exact email match.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// UpdateProfilePicture overwrites the stored picture. Updating an id that
// does not exist is not an error.
func (r *GORMUserRepository) UpdateProfilePicture(ctx context.Context, id uint, picture []byte) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("profilePicture", picture)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile picture for user %d: %w", id, res.Error)
	}
	return nil
}
