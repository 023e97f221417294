// internal/handler/user_auth.go
package handler

import (
	"errors"
	"net/http"

	"github.com/Mirzamurod/flowers-backend/internal/helper"
	"github.com/Mirzamurod/flowers-backend/internal/model"
	"github.com/Mirzamurod/flowers-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest represents the refresh token request payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents the authentication response with tokens
type AuthResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	User         model.UserResponse `json:"user"`
}

// Register handles vendor registration
// POST /register
func Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	if req.Email == "" || req.Password == "" {
		return ErrorResponse(c, http.StatusBadRequest, "Email and password are required", "MISSING_FIELDS", "")
	}

	createReq := model.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     "client",
	}

	user, err := service.RegisterUser(createReq)
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), "REGISTRATION_FAILED", "")
	}

	accessToken, err := service.GenerateAccessToken(user)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to generate access token", "TOKEN_GENERATION_FAILED", err.Error())
	}

	refreshToken, err := service.GenerateRefreshTokenForUser(user, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to generate refresh token", "TOKEN_GENERATION_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusCreated, "User registered successfully", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	})
}

// LoginUser handles vendor login with email/password
// POST /login
func LoginUser(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	if req.Email == "" || req.Password == "" {
		return ErrorResponse(c, http.StatusBadRequest, "Email and password are required", "MISSING_FIELDS", "")
	}

	user, err := service.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			return ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", "")
		}
		return ErrorResponse(c, http.StatusInternalServerError, "Login failed", "LOGIN_FAILED", err.Error())
	}

	accessToken, err := service.GenerateAccessToken(user)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to generate access token", "TOKEN_GENERATION_FAILED", err.Error())
	}

	refreshToken, err := service.GenerateRefreshTokenForUser(user, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to generate refresh token", "TOKEN_GENERATION_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "Login successful", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	})
}

// RefreshToken exchanges a valid refresh token for a new access token
// POST /refresh
func RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	if req.RefreshToken == "" {
		return ErrorResponse(c, http.StatusBadRequest, "Refresh token is required", "MISSING_FIELDS", "")
	}

	accessToken, user, err := service.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		return ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired refresh token", "INVALID_REFRESH_TOKEN", "")
	}

	return SuccessResponse(c, http.StatusOK, "Token refreshed", map[string]interface{}{
		"access_token": accessToken,
		"user":         user.ToResponse(),
	})
}

// LogoutUser revokes the presented refresh token
// POST /api/logout
func LogoutUser(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	if req.RefreshToken != "" {
		_ = service.RevokeUserSession(req.RefreshToken)
	} else {
		_ = service.RevokeAllUserSessions(currentUserID(c))
	}

	return SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// GetCurrentUser returns the authenticated vendor's profile
// GET /api/me
func GetCurrentUser(c echo.Context) error {
	user, err := model.GetUserByID(currentUserID(c))
	if err != nil {
		return ErrorResponse(c, http.StatusNotFound, "User not found", "USER_NOT_FOUND", "")
	}

	return SuccessResponse(c, http.StatusOK, "Profile retrieved", user.ToResponse())
}

// UpdateCurrentUser updates the authenticated vendor's profile. Setting or
// clearing telegramToken here is what starts or stops the vendor's bot on
// the manager's next reconcile pass.
// PUT /api/me
func UpdateCurrentUser(c echo.Context) error {
	var req model.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	userID := currentUserID(c)

	if req.TelegramToken != nil && *req.TelegramToken == "" {
		if err := model.ClearTelegramToken(userID); err != nil {
			return ErrorResponse(c, http.StatusInternalServerError, "Failed to clear bot token", "UPDATE_FAILED", err.Error())
		}
		req.TelegramToken = nil
	}

	if err := model.UpdateUser(userID, req); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return ErrorResponse(c, http.StatusNotFound, "User not found", "USER_NOT_FOUND", "")
		}
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to update profile", "UPDATE_FAILED", err.Error())
	}

	user, err := model.GetUserByID(userID)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile", "USER_NOT_FOUND", "")
	}

	return SuccessResponse(c, http.StatusOK, "Profile updated", user.ToResponse())
}

// ChangePassword updates the authenticated vendor's password
// PUT /api/me/password
func ChangePassword(c echo.Context) error {
	var req model.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return ErrorResponse(c, http.StatusBadRequest, "Old and new passwords are required", "MISSING_FIELDS", "")
	}

	user, err := model.GetUserByID(currentUserID(c))
	if err != nil {
		return ErrorResponse(c, http.StatusNotFound, "User not found", "USER_NOT_FOUND", "")
	}

	if _, err := service.AuthenticateUser(user.Email, req.OldPassword); err != nil {
		return ErrorResponse(c, http.StatusUnauthorized, "Old password is incorrect", "INVALID_CREDENTIALS", "")
	}

	newHash, err := helper.HashPassword(req.NewPassword)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to hash password", "HASH_FAILED", err.Error())
	}

	if err := model.UpdateUserPassword(user.ID, newHash); err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to update password", "UPDATE_FAILED", err.Error())
	}

	// Force re-login everywhere else.
	_ = service.RevokeAllUserSessions(user.ID)

	return SuccessResponse(c, http.StatusOK, "Password changed", nil)
}

// ListUsers returns every account (admin)
// GET /api/users
func ListUsers(c echo.Context) error {
	users, err := model.ListUsers()
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to list users", "LIST_FAILED", err.Error())
	}

	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	return SuccessResponse(c, http.StatusOK, "Users retrieved", responses)
}

// BlockUser toggles a vendor's block flag (admin)
// PATCH /api/users/block/:id
func BlockUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid user id", "INVALID_ID", "")
	}

	var req struct {
		Block bool `json:"block"`
	}
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	if err := model.SetUserBlock(id, req.Block); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return ErrorResponse(c, http.StatusNotFound, "User not found", "USER_NOT_FOUND", "")
		}
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to update user", "UPDATE_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "User updated", nil)
}
