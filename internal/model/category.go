// internal/model/category.go
package model

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Mirzamurod/flowers-backend/database"
)

// Category groups a vendor's bouquets and flowers.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ErrCategoryNotFound = errors.New("category not found")

// CreateCategory inserts a category for a vendor
func CreateCategory(c *Category) error {
	db := database.AppDB

	query := `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	return db.QueryRow(query, c.UserID, c.Name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetCategory retrieves one of the vendor's categories
func GetCategory(userID, id int64) (*Category, error) {
	db := database.AppDB

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE user_id = $1 AND id = $2
	`

	c := &Category{}
	err := db.QueryRow(query, userID, id).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns every category of a vendor
func ListCategories(userID int64) ([]Category, error) {
	db := database.AppDB

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// UpdateCategory renames one of the vendor's categories
func UpdateCategory(userID, id int64, name string) error {
	db := database.AppDB

	result, err := db.Exec(
		`UPDATE categories SET name = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id, name,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// DeleteCategory removes one of the vendor's categories
func DeleteCategory(userID, id int64) error {
	db := database.AppDB

	result, err := db.Exec(`DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
