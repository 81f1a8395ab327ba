package handlers

import (
	"fmt"
	"io"
	"strconv"

	"amethyst/internal/middleware"
	"amethyst/internal/services"
	"amethyst/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const profilePictureField = "profilePicture"

// AuthHandler handles HTTP requests for authentication and profiles.
type AuthHandler struct {
	authService      *services.AuthService
	enforceOwnership bool
}

// NewAuthHandler creates a new AuthHandler. With enforceOwnership set, a
// profile picture can only be replaced by the user it belongs to.
func NewAuthHandler(authService *services.AuthService, enforceOwnership bool) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		enforceOwnership: enforceOwnership,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/user-info", h.HandleUserInfo)

	upload := []fiber.Handler{h.HandleUploadProfilePicture}
	if h.enforceOwnership {
		upload = append([]fiber.Handler{middleware.AuthRequired(h.authService)}, upload...)
	}
	router.Put("/upload-profile-picture/:userId", upload...)
}

// RegisterRequest is the multipart registration form.
type RegisterRequest struct {
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logrus.WithError(err).Debug("error parsing register request body")
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	picture, err := readUpload(c, profilePictureField)
	if err != nil {
		return response.FromError(c, err, "Registration failed")
	}

	result, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: picture,
	})
	if err != nil {
		return response.FromError(c, err, "Registration failed")
	}

	return response.Success(c, result, "Registration successful")
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logrus.WithError(err).Debug("error parsing login request body")
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	token, err := h.authService.Login(c.UserContext(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.FromError(c, err, "Login failed")
	}

	return response.Success(c, fiber.Map{"token": token}, "Login successful")
}

// HandleUploadProfilePicture replaces the profile picture of :userId.
func (h *AuthHandler) HandleUploadProfilePicture(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 0)
	if err != nil {
		return response.Error(c, "Invalid user id", fiber.StatusBadRequest)
	}

	if h.enforceOwnership {
		current, ok := middleware.CurrentUserID(c)
		if !ok || current != uint(userID) {
			return response.Error(c, "You can only update your own profile picture", fiber.StatusForbidden)
		}
	}

	picture, err := readUpload(c, profilePictureField)
	if err != nil {
		return response.FromError(c, err, "Failed to upload profile picture")
	}

	if err := h.authService.UpdateProfilePicture(c.UserContext(), uint(userID), picture); err != nil {
		return response.FromError(c, err, "Failed to upload profile picture")
	}

	return response.Success(c, fiber.Map{"message": "Profile picture updated successfully"}, "")
}

// HandleUserInfo returns the profile of the bearer token's user.
func (h *AuthHandler) HandleUserInfo(c *fiber.Ctx) error {
	profile, err := h.authService.GetUserInfo(c.UserContext(), middleware.BearerToken(c))
	if err != nil {
		return response.FromError(c, err, "Failed to fetch user info")
	}
	return response.Success(c, fiber.Map{"user": profile}, "")
}

// readUpload reads the named multipart file into memory. A request without
// that file yields nil.
func readUpload(c *fiber.Ctx, field string) (*services.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Data:        data,
	}, nil
}
