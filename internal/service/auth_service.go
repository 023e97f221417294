// internal/service/auth_service.go
package service

import (
	"database/sql"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/Mirzamurod/flowers-backend/internal/helper"
	"github.com/Mirzamurod/flowers-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// JWT configuration
var (
	jwtSecret               []byte
	accessTokenExpiry       time.Duration
	refreshTokenExpiry      time.Duration
	maxRefreshTokensPerUser int
)

// InitAuthConfig initializes authentication configuration from environment variables
func InitAuthConfig(secret string) {
	jwtSecret = []byte(secret)

	// Access token expiry (default: 1 hour)
	accessExp := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if accessExp == "" {
		accessExp = "1h"
	}
	accessTokenExpiry, _ = time.ParseDuration(accessExp)

	// Refresh token expiry (default: 7 days)
	refreshExp := os.Getenv("JWT_REFRESH_TOKEN_EXPIRY")
	if refreshExp == "" {
		refreshExp = "168h"
	}
	refreshTokenExpiry, _ = time.ParseDuration(refreshExp)

	// Max refresh tokens per user (default: 5)
	maxTokens := os.Getenv("MAX_REFRESH_TOKENS_PER_USER")
	if maxTokens == "" {
		maxRefreshTokensPerUser = 5
	} else {
		maxRefreshTokensPerUser, _ = strconv.Atoi(maxTokens)
	}
}

// Claims represents JWT claims
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterUser creates a new vendor account
func RegisterUser(req model.CreateUserRequest) (*model.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	existingUser, _ := model.GetUserByEmail(req.Email)
	if existingUser != nil {
		return nil, model.ErrUserAlreadyExists
	}

	passwordHash, err := helper.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "client"
	}
	if role != "admin" && role != "client" {
		return nil, errors.New("invalid role")
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: sql.NullString{String: passwordHash, Valid: true},
		Name:         sql.NullString{String: req.Name, Valid: req.Name != ""},
		Role:         role,
		Plan:         "week",
		// New vendors stay blocked until an admin approves them.
		Block: true,
	}

	if err := model.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// AuthenticateUser validates email/password and returns the user if valid
func AuthenticateUser(email, password string) (*model.User, error) {
	user, err := model.GetUserByEmail(email)
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.PasswordHash.Valid {
		return nil, errors.New("password not set for this account")
	}

	if err := helper.VerifyPassword(user.PasswordHash.String, password); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GenerateAccessToken generates a JWT access token for a user
func GenerateAccessToken(user *model.User) (string, error) {
	expirationTime := time.Now().Add(accessTokenExpiry)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// GenerateRefreshTokenForUser generates a refresh token and stores it
func GenerateRefreshTokenForUser(user *model.User, ipAddress, userAgent string) (string, error) {
	tokenCount, err := model.GetUserTokenCount(user.ID)
	if err != nil {
		return "", err
	}

	// Too many live sessions: push the oldest one out.
	if tokenCount >= maxRefreshTokensPerUser {
		_ = model.DeleteOldestUserToken(user.ID)
	}

	tokenString, err := model.GenerateRefreshToken()
	if err != nil {
		return "", err
	}

	refreshToken := &model.RefreshToken{
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(refreshTokenExpiry),
		IPAddress: sql.NullString{String: ipAddress, Valid: ipAddress != ""},
		UserAgent: sql.NullString{String: userAgent, Valid: userAgent != ""},
	}

	if err := model.CreateRefreshToken(refreshToken); err != nil {
		return "", err
	}

	return tokenString, nil
}

// RefreshAccessToken validates a refresh token and issues a new access token
func RefreshAccessToken(refreshTokenString string) (string, *model.User, error) {
	refreshToken, err := model.GetRefreshToken(refreshTokenString)
	if err != nil {
		return "", nil, err
	}

	user, err := model.GetUserByID(refreshToken.UserID)
	if err != nil {
		return "", nil, err
	}

	accessToken, err := GenerateAccessToken(user)
	if err != nil {
		return "", nil, err
	}

	return accessToken, user, nil
}

// ValidateAccessToken validates a JWT access token and returns its claims
func ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// RevokeUserSession revokes a refresh token (logout)
func RevokeUserSession(refreshToken string) error {
	return model.RevokeRefreshToken(refreshToken)
}

// RevokeAllUserSessions revokes all refresh tokens for a user
func RevokeAllUserSessions(userID int64) error {
	return model.RevokeAllUserTokens(userID)
}
