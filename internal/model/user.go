// internal/model/user.go
package model

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Mirzamurod/flowers-backend/database"
)

// User is a platform account: an admin or a flower-shop vendor ("client").
type User struct {
	ID            int64
	Email         string
	PasswordHash  sql.NullString
	Name          sql.NullString
	Image         sql.NullString
	Role          string // 'admin', 'client'
	Plan          string // 'week', 'month', 'vip'
	Block         bool
	TelegramToken sql.NullString
	Location      sql.NullString
	CardNumber    sql.NullString
	CardName      sql.NullString
	UserName      sql.NullString
	UserPhone     sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserResponse is the JSON shape for user data (without sensitive fields).
type UserResponse struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	Image         string    `json:"image,omitempty"`
	Role          string    `json:"role"`
	Plan          string    `json:"plan"`
	Block         bool      `json:"block"`
	TelegramToken string    `json:"telegramToken,omitempty"`
	Location      string    `json:"location,omitempty"`
	CardNumber    string    `json:"card_number,omitempty"`
	CardName      string    `json:"card_name,omitempty"`
	UserName      string    `json:"userName,omitempty"`
	UserPhone     string    `json:"userPhone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateUserRequest is the payload for registering a vendor.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"` // defaults to 'client'
}

// UpdateUserRequest is the payload for updating a vendor profile. Nil fields
// are left untouched; an explicit empty TelegramToken clears the bot
// credential and the reconciler stops the bot on its next pass.
type UpdateUserRequest struct {
	Name          *string `json:"name,omitempty"`
	Image         *string `json:"image,omitempty"`
	TelegramToken *string `json:"telegramToken,omitempty"`
	Location      *string `json:"location,omitempty"`
	CardNumber    *string `json:"card_number,omitempty"`
	CardName      *string `json:"card_name,omitempty"`
	UserName      *string `json:"userName,omitempty"`
	UserPhone     *string `json:"userPhone,omitempty"`
}

// ChangePasswordRequest is the payload for changing a password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const userColumns = `id, email, password_hash, name, image, role, plan, block,
	telegram_token, location, card_number, card_name, user_name, user_phone,
	created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Image,
		&user.Role,
		&user.Plan,
		&user.Block,
		&user.TelegramToken,
		&user.Location,
		&user.CardNumber,
		&user.CardName,
		&user.UserName,
		&user.UserPhone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user into the database
func CreateUser(user *User) error {
	db := database.AppDB

	query := `
		INSERT INTO users (email, password_hash, name, role, plan, block)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(
		query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.Plan,
		user.Block,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if err.Error() == "pq: duplicate key value violates unique constraint \"users_email_key\"" {
			return ErrUserAlreadyExists
		}
		return err
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func GetUserByEmail(email string) (*User, error) {
	db := database.AppDB

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID
func GetUserByID(id int64) (*User, error) {
	db := database.AppDB

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.QueryRow(query, id))
}

// UpdateUser applies a partial profile update. COALESCE keeps columns whose
// request field was omitted.
func UpdateUser(id int64, req UpdateUserRequest) error {
	db := database.AppDB

	query := `
		UPDATE users
		SET name           = COALESCE($2, name),
		    image          = COALESCE($3, image),
		    telegram_token = COALESCE($4, telegram_token),
		    location       = COALESCE($5, location),
		    card_number    = COALESCE($6, card_number),
		    card_name      = COALESCE($7, card_name),
		    user_name      = COALESCE($8, user_name),
		    user_phone     = COALESCE($9, user_phone),
		    updated_at     = NOW()
		WHERE id = $1
	`

	result, err := db.Exec(query, id,
		req.Name,
		req.Image,
		req.TelegramToken,
		req.Location,
		req.CardNumber,
		req.CardName,
		req.UserName,
		req.UserPhone,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ClearTelegramToken removes the vendor's bot credential. The reconciler
// tears the session down on its next pass.
func ClearTelegramToken(id int64) error {
	db := database.AppDB

	_, err := db.Exec(`UPDATE users SET telegram_token = NULL, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// UpdateUserPassword updates the password hash
func UpdateUserPassword(userID int64, newPasswordHash string) error {
	db := database.AppDB

	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	result, err := db.Exec(query, newPasswordHash, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetUserBlock toggles a vendor's block flag (admin only)
func SetUserBlock(id int64, block bool) error {
	db := database.AppDB

	result, err := db.Exec(`UPDATE users SET block = $2, updated_at = NOW() WHERE id = $1`, id, block)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListUsers retrieves all users ordered by signup date (admin)
func ListUsers() ([]User, error) {
	db := database.AppDB

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&user.Image,
			&user.Role,
			&user.Plan,
			&user.Block,
			&user.TelegramToken,
			&user.Location,
			&user.CardNumber,
			&user.CardName,
			&user.UserName,
			&user.UserPhone,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// ToResponse converts User to UserResponse (removes sensitive data)
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Plan:      u.Plan,
		Block:     u.Block,
		CreatedAt: u.CreatedAt,
	}

	if u.Name.Valid {
		resp.Name = u.Name.String
	}
	if u.Image.Valid {
		resp.Image = u.Image.String
	}
	if u.TelegramToken.Valid {
		resp.TelegramToken = u.TelegramToken.String
	}
	if u.Location.Valid {
		resp.Location = u.Location.String
	}
	if u.CardNumber.Valid {
		resp.CardNumber = u.CardNumber.String
	}
	if u.CardName.Valid {
		resp.CardName = u.CardName.String
	}
	if u.UserName.Valid {
		resp.UserName = u.UserName.String
	}
	if u.UserPhone.Valid {
		resp.UserPhone = u.UserPhone.String
	}

	return resp
}
