// internal/model/refresh_token.go
package model

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Mirzamurod/flowers-backend/database"
)

// RefreshToken keeps a vendor dashboard logged in between access tokens.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
	IPAddress sql.NullString
	UserAgent sql.NullString
}

var (
	ErrTokenNotFound = errors.New("refresh token not found")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenRevoked  = errors.New("refresh token revoked")
)

// GenerateRefreshToken generates a random refresh token string
func GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CreateRefreshToken inserts a new refresh token into the database
func CreateRefreshToken(rt *RefreshToken) error {
	db := database.AppDB

	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return db.QueryRow(
		query,
		rt.UserID,
		rt.Token,
		rt.ExpiresAt,
		rt.IPAddress,
		rt.UserAgent,
	).Scan(&rt.ID, &rt.CreatedAt)
}

// GetRefreshToken retrieves a refresh token and validates its state
func GetRefreshToken(token string) (*RefreshToken, error) {
	db := database.AppDB

	query := `
		SELECT id, user_id, token, expires_at, created_at, revoked, ip_address, user_agent
		FROM refresh_tokens
		WHERE token = $1
	`

	rt := &RefreshToken{}
	err := db.QueryRow(query, token).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
		&rt.Revoked,
		&rt.IPAddress,
		&rt.UserAgent,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if rt.Revoked {
		return nil, ErrTokenRevoked
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return rt, nil
}

// RevokeRefreshToken marks a refresh token as revoked (logout)
func RevokeRefreshToken(token string) error {
	db := database.AppDB

	result, err := db.Exec(`UPDATE refresh_tokens SET revoked = true WHERE token = $1`, token)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTokenNotFound
	}

	return nil
}

// RevokeAllUserTokens revokes every active refresh token for a user
func RevokeAllUserTokens(userID int64) error {
	db := database.AppDB

	_, err := db.Exec(`UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND revoked = false`, userID)
	return err
}

// CleanupExpiredTokens removes expired tokens; meant for a periodic job
func CleanupExpiredTokens() (int64, error) {
	db := database.AppDB

	result, err := db.Exec(`DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetUserTokenCount returns the number of active tokens for a user
func GetUserTokenCount(userID int64) (int, error) {
	db := database.AppDB

	query := `
		SELECT COUNT(*)
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked = false AND expires_at > NOW()
	`

	var count int
	if err := db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOldestUserToken drops the oldest token when the per-user limit is hit
func DeleteOldestUserToken(userID int64) error {
	db := database.AppDB

	query := `
		DELETE FROM refresh_tokens
		WHERE id = (
			SELECT id FROM refresh_tokens
			WHERE user_id = $1 AND revoked = false
			ORDER BY created_at ASC
			LIMIT 1
		)
	`

	_, err := db.Exec(query, userID)
	return err
}
