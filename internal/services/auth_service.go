package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amethyst/internal/apperrors"
	"amethyst/internal/models"
	"amethyst/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	EventUserRegistered            = "user.registered"
	EventUserProfilePictureUpdated = "user.profile_picture_updated"
)

// EventPublisher publishes user lifecycle events. It is optional; a nil
// publisher disables publishing.
type EventPublisher interface {
	PublishUserEvent(eventType string, payload map[string]interface{}) error
}

// AuthConfig tunes an AuthService. Zero fields take their defaults.
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration // default 24h
	BcryptCost     int           // default 10
	MaxUploadBytes int64         // default 5MB
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Email          string `validate:"required,email"`
	Password       string `validate:"required,min=6"`
	FirstName      string `validate:"required"`
	LastName       string `validate:"required"`
	ProfilePicture *Upload
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId"`
}

var registerMessages = map[string]string{
	"Email":     "Please enter a valid email",
	"Password":  "Password must be at least 6 characters long",
	"FirstName": "First name is required",
	"LastName":  "Last name is required",
}

var loginMessages = map[string]string{
	"Email":    "Please enter a valid email",
	"Password": "Password is required",
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	publisher EventPublisher
	validate  *validator.Validate

	jwtSecret      []byte
	tokenDurat     time.Duration // Duration for which JWT is valid
	bcryptCost     int
	maxUploadBytes int64
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, publisher EventPublisher, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 * 1024 * 1024
	}
	return &AuthService{
		userRepo:       userRepo,
		publisher:      publisher,
		validate:       validator.New(),
		jwtSecret:      []byte(cfg.JWTSecret),
		tokenDurat:     cfg.TokenTTL,
		bcryptCost:     cfg.BcryptCost,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Register validates the form, creates the user and returns a session token
// for it. The email pre-check and the insert share one pooled connection.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validateInput(in, registerMessages); err != nil {
		return nil, err
	}
	if in.ProfilePicture != nil {
		if err := validatePicture(in.ProfilePicture, s.maxUploadBytes); err != nil {
			return nil, err
		}
	}

	var user *models.User
	err := s.userRepo.WithConn(ctx, func(repo repositories.UserRepository) error {
		_, err := repo.GetByEmail(ctx, in.Email)
		if err == nil {
			return apperrors.Conflict("Email already exists")
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Internal("Registration failed", err)
		}

		hash, err := s.HashPassword(in.Password)
		if err != nil {
			return err
		}

		user = &models.User{
			Email:     in.Email,
			Password:  hash,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		}
		if in.ProfilePicture != nil {
			user.ProfilePicture = in.ProfilePicture.Data
		}
		if err := repo.Create(ctx, user); err != nil {
			// Lost the race with a concurrent registration.
			if errors.Is(err, repositories.ErrDuplicateEmail) {
				return apperrors.Conflict("Email already exists")
			}
			return apperrors.Internal("Registration failed", err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Internal("Registration failed", err)
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal("Registration failed", err)
	}

	s.publish(EventUserRegistered, map[string]interface{}{
		"userId": user.ID,
		"email":  user.Email,
	})

	return &RegisterResult{Token: token, UserID: user.ID}, nil
}

// Login authenticates a user and returns a JWT token if successful.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validateInput(in, loginMessages); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", apperrors.Auth("Invalid credentials")
		}
		return "", apperrors.Internal("Login failed", err)
	}

	if !s.CheckPassword(user.Password, in.Password) {
		return "", apperrors.Auth("Invalid credentials")
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return "", apperrors.Internal("Login failed", err)
	}
	return token, nil
}

// UpdateProfilePicture replaces the stored picture of userID. The target is
// not checked for existence.
func (s *AuthService) UpdateProfilePicture(ctx context.Context, userID uint, file *Upload) error {
	if file == nil {
		return apperrors.Validation("No file uploaded")
	}
	if err := validatePicture(file, s.maxUploadBytes); err != nil {
		return err
	}

	if err := s.userRepo.UpdateProfilePicture(ctx, userID, file.Data); err != nil {
		return apperrors.Internal("Failed to upload profile picture", err)
	}

	s.publish(EventUserProfilePictureUpdated, map[string]interface{}{
		"userId": userID,
		"size":   len(file.Data),
	})
	return nil
}

// GetUserInfo resolves a bearer token to the profile of its user.
func (s *AuthService) GetUserInfo(ctx context.Context, token string) (*models.UserProfile, error) {
	if token == "" {
		return nil, apperrors.Auth("No token provided")
	}
	userID, err := s.ValidateToken(token)
	if err != nil {
		logrus.WithError(err).Debug("rejected bearer token")
		return nil, apperrors.Auth("Invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Failed to fetch user info", err)
	}

	profile := &models.UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if len(user.ProfilePicture) > 0 {
		uri := pictureDataURI(user.ProfilePicture)
		profile.ProfilePicture = &uri
	}
	return profile, nil
}

// HashPassword hashes a plain text password with bcrypt. Passwords longer
// than bcrypt's 72 byte limit are rejected as invalid input.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.Validation("Password must be at most 72 bytes long")
		}
		return "", apperrors.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken signs a token carrying userID that expires after the
// configured TTL.
func (s *AuthService) GenerateToken(userID uint) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokenDurat).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the user id it
// was issued for.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	if _, ok := claims["exp"]; !ok {
		return 0, fmt.Errorf("invalid token: missing exp claim")
	}
	id, ok := claims["userId"].(float64)
	if !ok || id < 1 || id != float64(uint(id)) {
		return 0, fmt.Errorf("invalid token: bad userId claim")
	}
	return uint(id), nil
}

func (s *AuthService) validateInput(in interface{}, messages map[string]string) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := messages[verrs[0].Field()]; ok {
			return apperrors.Validation(msg)
		}
		return apperrors.Validation(fmt.Sprintf("%s is invalid", verrs[0].Field()))
	}
	return apperrors.Internal("failed to validate input", err)
}

func (s *AuthService) publish(eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishUserEvent(eventType, payload); err != nil {
		logrus.WithError(err).WithField("event", eventType).Warn("failed to publish user event")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
