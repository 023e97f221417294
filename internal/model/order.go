// internal/model/order.go
package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Mirzamurod/flowers-backend/database"
)

// OrderItemRow is one line of an order as submitted by the web-app.
type OrderItemRow struct {
	Name  string `json:"name,omitempty"`
	Image string `json:"image"`
	Price int64  `json:"price"`
}

// Order is a customer order for one vendor.
type Order struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"userId"`
	OrderNumber int64          `json:"orderNumber"`
	ClientName  string         `json:"clientName,omitempty"`
	ClientPhone string         `json:"clientPhone,omitempty"`
	Address     string         `json:"address,omitempty"`
	Items       []OrderItemRow `json:"items"`
	TotalPrice  int64          `json:"totalPrice"`
	Status      string         `json:"status"` // new | done | cancelled
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// OrderFilter pages and filters a vendor's orders.
type OrderFilter struct {
	UserID int64
	Limit  int
	Page   int
	Search string // matches the order number
	Status string
}

// OrderPage is the pagination envelope for order listings.
type OrderPage struct {
	Page      int     `json:"page"`
	Data      []Order `json:"data"`
	PageLists int     `json:"pageLists"`
	Count     int     `json:"count"`
}

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrBadOrderStatus  = errors.New("invalid order status")
	validOrderStatuses = map[string]bool{"new": true, "done": true, "cancelled": true}
)

// CreateOrder stores a web-app submission, assigning the vendor's next
// order number.
func CreateOrder(o *Order) error {
	db := database.AppDB

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	if o.Status == "" {
		o.Status = "new"
	}

	query := `
		INSERT INTO orders (user_id, order_number, client_name, client_phone, address, items, total_price, status)
		VALUES (
			$1,
			COALESCE((SELECT MAX(order_number) FROM orders WHERE user_id = $1), 0) + 1,
			$2, $3, $4, $5, $6, $7
		)
		RETURNING id, order_number, created_at, updated_at
	`

	return db.QueryRow(
		query,
		o.UserID,
		o.ClientName,
		o.ClientPhone,
		o.Address,
		items,
		o.TotalPrice,
		o.Status,
	).Scan(&o.ID, &o.OrderNumber, &o.CreatedAt, &o.UpdatedAt)
}

func scanOrder(rows *sql.Rows) (Order, error) {
	var o Order
	var items []byte
	err := rows.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&o.ClientName,
		&o.ClientPhone,
		&o.Address,
		&items,
		&o.TotalPrice,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshal order items: %w", err)
	}
	return o, nil
}

// ListOrders returns one page of a vendor's orders, newest first.
func ListOrders(f OrderFilter) (*OrderPage, error) {
	db := database.AppDB

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	where := ` WHERE user_id = $1`
	args := []interface{}{f.UserID}

	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND order_number::text LIKE $%d`, len(args))
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM orders`+where, args...).Scan(&count); err != nil {
		return nil, err
	}

	args = append(args, f.Limit, f.Limit*(f.Page-1))
	query := `
		SELECT id, user_id, order_number, COALESCE(client_name, ''), COALESCE(client_phone, ''),
		       COALESCE(address, ''), items, total_price, status, created_at, updated_at
		FROM orders` + where + ` ORDER BY created_at DESC` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pageLists := (count + f.Limit - 1) / f.Limit
	if pageLists == 0 {
		pageLists = 1
	}

	return &OrderPage{
		Page:      f.Page,
		Data:      orders,
		PageLists: pageLists,
		Count:     count,
	}, nil
}

// ListAllOrders returns every order of a vendor, for the Excel export.
func ListAllOrders(userID int64) ([]Order, error) {
	page, err := ListOrders(OrderFilter{UserID: userID, Limit: 1 << 30})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// UpdateOrderStatus moves an order between new/done/cancelled.
func UpdateOrderStatus(userID, id int64, status string) error {
	if !validOrderStatuses[status] {
		return ErrBadOrderStatus
	}

	db := database.AppDB

	result, err := db.Exec(
		`UPDATE orders SET status = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id, status,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// DeleteOrder removes one of the vendor's orders.
func DeleteOrder(userID, id int64) error {
	db := database.AppDB

	result, err := db.Exec(`DELETE FROM orders WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
