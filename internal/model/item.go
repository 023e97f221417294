// internal/model/item.go
package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mirzamurod/flowers-backend/database"
)

// Bouquets and flowers share one shape; the table name picks the catalog.
const (
	TableBouquets = "bouquets"
	TableFlowers  = "flowers"
)

// Item is one catalog entry (a bouquet or a flower).
type Item struct {
	ID           int64
	UserID       int64
	CategoryID   sql.NullInt64
	CategoryName sql.NullString
	Name         string
	Info         sql.NullString
	Price        int64
	Image        sql.NullString
	Block        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemResponse is the JSON shape for catalog entries.
type ItemResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	CategoryID   int64     `json:"category,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	Name         string    `json:"name"`
	Info         string    `json:"info,omitempty"`
	Price        int64     `json:"price"`
	Image        string    `json:"image,omitempty"`
	Block        bool      `json:"block"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ItemFilter narrows and pages a catalog listing.
type ItemFilter struct {
	UserID     int64
	Limit      int
	Page       int
	SortName   string
	SortValue  string
	Search     string
	CategoryID int64
	PublicOnly bool // block = false entries only (customer web-app)
}

// ItemPage mirrors the pagination envelope the dashboard expects.
type ItemPage struct {
	Page      int            `json:"page"`
	Data      []ItemResponse `json:"data"`
	PageLists int            `json:"pageLists"`
	Count     int            `json:"count"`
}

// UpdateItemRequest is a partial catalog update; nil fields stay untouched.
type UpdateItemRequest struct {
	Name       *string `json:"name,omitempty"`
	Info       *string `json:"info,omitempty"`
	Price      *int64  `json:"price,omitempty"`
	CategoryID *int64  `json:"category,omitempty"`
	Block      *bool   `json:"block,omitempty"`
	Image      *string `json:"-"`
}

var ErrItemNotFound = errors.New("item not found")

// sort columns the API accepts; anything else falls back to updated_at
var itemSortColumns = map[string]bool{
	"name":       true,
	"price":      true,
	"created_at": true,
	"updated_at": true,
}

func checkItemTable(table string) {
	if table != TableBouquets && table != TableFlowers {
		panic("model: unknown item table " + table)
	}
}

// ListItems returns one page of a vendor's catalog.
func ListItems(table string, f ItemFilter) (*ItemPage, error) {
	checkItemTable(table)
	db := database.AppDB

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	where := ` WHERE i.user_id = $1`
	args := []interface{}{f.UserID}

	if f.PublicOnly {
		where += ` AND i.block = false`
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		where += fmt.Sprintf(` AND i.category_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND i.name ILIKE $%d`, len(args))
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM ` + table + ` i` + where
	if err := db.QueryRow(countQuery, args...).Scan(&count); err != nil {
		return nil, err
	}

	orderBy := ` ORDER BY i.updated_at DESC`
	if itemSortColumns[f.SortName] {
		direction := "ASC"
		if f.SortValue == "desc" || f.SortValue == "-1" {
			direction = "DESC"
		}
		orderBy = fmt.Sprintf(` ORDER BY i.%s %s, i.updated_at DESC`, f.SortName, direction)
	}

	args = append(args, f.Limit, f.Limit*(f.Page-1))
	query := `
		SELECT i.id, i.user_id, i.category_id, c.name, i.name, i.info, i.price,
		       i.image, i.block, i.created_at, i.updated_at
		FROM ` + table + ` i
		LEFT JOIN categories c ON c.id = i.category_id` +
		where + orderBy +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ItemResponse{}
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.CategoryID,
			&item.CategoryName,
			&item.Name,
			&item.Info,
			&item.Price,
			&item.Image,
			&item.Block,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item.ToResponse())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pageLists := (count + f.Limit - 1) / f.Limit
	if pageLists == 0 {
		pageLists = 1
	}

	return &ItemPage{
		Page:      f.Page,
		Data:      items,
		PageLists: pageLists,
		Count:     count,
	}, nil
}

// GetItem retrieves one of the vendor's catalog entries.
func GetItem(table string, userID, id int64) (*Item, error) {
	checkItemTable(table)
	db := database.AppDB

	query := `
		SELECT i.id, i.user_id, i.category_id, c.name, i.name, i.info, i.price,
		       i.image, i.block, i.created_at, i.updated_at
		FROM ` + table + ` i
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.user_id = $1 AND i.id = $2
	`

	item := &Item{}
	err := db.QueryRow(query, userID, id).Scan(
		&item.ID,
		&item.UserID,
		&item.CategoryID,
		&item.CategoryName,
		&item.Name,
		&item.Info,
		&item.Price,
		&item.Image,
		&item.Block,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem inserts a catalog entry.
func CreateItem(table string, item *Item) error {
	checkItemTable(table)
	db := database.AppDB

	query := `
		INSERT INTO ` + table + ` (user_id, category_id, name, info, price, image, block)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	return db.QueryRow(
		query,
		item.UserID,
		item.CategoryID,
		item.Name,
		item.Info,
		item.Price,
		item.Image,
		item.Block,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// UpdateItem applies a partial update to one of the vendor's entries.
func UpdateItem(table string, userID, id int64, req UpdateItemRequest) error {
	checkItemTable(table)
	db := database.AppDB

	query := `
		UPDATE ` + table + `
		SET name        = COALESCE($3, name),
		    info        = COALESCE($4, info),
		    price       = COALESCE($5, price),
		    category_id = COALESCE($6, category_id),
		    block       = COALESCE($7, block),
		    image       = COALESCE($8, image),
		    updated_at  = NOW()
		WHERE user_id = $1 AND id = $2
	`

	result, err := db.Exec(query, userID, id,
		req.Name,
		req.Info,
		req.Price,
		req.CategoryID,
		req.Block,
		req.Image,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItem removes one of the vendor's entries.
func DeleteItem(table string, userID, id int64) error {
	checkItemTable(table)
	db := database.AppDB

	result, err := db.Exec(`DELETE FROM `+table+` WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// ToResponse converts an Item to its JSON shape.
func (i *Item) ToResponse() ItemResponse {
	resp := ItemResponse{
		ID:        i.ID,
		UserID:    i.UserID,
		Name:      i.Name,
		Price:     i.Price,
		Block:     i.Block,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}

	if i.CategoryID.Valid {
		resp.CategoryID = i.CategoryID.Int64
	}
	if i.CategoryName.Valid {
		resp.CategoryName = i.CategoryName.String
	}
	if i.Info.Valid {
		resp.Info = i.Info.String
	}
	if i.Image.Valid {
		resp.Image = i.Image.String
	}

	return resp
}
