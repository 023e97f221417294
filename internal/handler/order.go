// internal/handler/order.go
package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Mirzamurod/flowers-backend/internal/model"
	"github.com/Mirzamurod/flowers-backend/internal/ws"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

// CreateOrderRequest is the web-app submission payload.
type CreateOrderRequest struct {
	ClientName  string               `json:"clientName"`
	ClientPhone string               `json:"clientPhone"`
	Address     string               `json:"address"`
	Items       []model.OrderItemRow `json:"items"`
	TotalPrice  int64                `json:"totalPrice"`
}

// CreateOrderHandler accepts a public order submission for the vendor in the
// path and notifies connected dashboards.
// POST /orders/:userId
func CreateOrderHandler(realtime ws.RealtimePublisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := paramID(c, "userId")
		if err != nil {
			return ErrorResponse(c, http.StatusBadRequest, "Invalid user id", "INVALID_ID", "")
		}

		var req CreateOrderRequest
		if err := c.Bind(&req); err != nil {
			return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
		}
		if len(req.Items) == 0 {
			return ErrorResponse(c, http.StatusBadRequest, "Order must contain at least one item", "VALIDATION_ERROR", "")
		}

		total := req.TotalPrice
		if total == 0 {
			for _, item := range req.Items {
				total += item.Price
			}
		}

		order := &model.Order{
			UserID:      userID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			Address:     req.Address,
			Items:       req.Items,
			TotalPrice:  total,
		}

		if err := model.CreateOrder(order); err != nil {
			return ErrorResponse(c, http.StatusBadRequest, "Failed to create order", "CREATE_FAILED", err.Error())
		}

		if realtime != nil {
			realtime.Publish(ws.WsEvent{
				Event: ws.EventOrderCreated,
				Data: ws.OrderCreatedData{
					TenantID:    order.UserID,
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					TotalPrice:  order.TotalPrice,
				},
			})
		}

		return SuccessResponse(c, http.StatusCreated, "Order created", order)
	}
}

// ListOrders returns one page of the vendor's orders
// GET /api/orders
func ListOrders(c echo.Context) error {
	filter := model.OrderFilter{
		UserID: currentUserID(c),
		Limit:  queryInt(c, "limit", 20),
		Page:   queryInt(c, "page", 1),
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}

	page, err := model.ListOrders(filter)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to list orders", "LIST_FAILED", err.Error())
	}

	return c.JSON(http.StatusOK, page)
}

// UpdateOrderStatus moves an order between new/done/cancelled
// PATCH /api/orders/:id
func UpdateOrderStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST", err.Error())
	}

	if err := model.UpdateOrderStatus(currentUserID(c), id, req.Status); err != nil {
		switch {
		case errors.Is(err, model.ErrBadOrderStatus):
			return ErrorResponse(c, http.StatusBadRequest, "Status must be new, done or cancelled", "INVALID_STATUS", "")
		case errors.Is(err, model.ErrOrderNotFound):
			return ErrorResponse(c, http.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", "")
		default:
			return ErrorResponse(c, http.StatusInternalServerError, "Failed to update order", "UPDATE_FAILED", err.Error())
		}
	}

	return SuccessResponse(c, http.StatusOK, "Order updated", nil)
}

// DeleteOrder removes one of the vendor's orders
// DELETE /api/orders/:id
func DeleteOrder(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid id", "INVALID_ID", "")
	}

	if err := model.DeleteOrder(currentUserID(c), id); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return ErrorResponse(c, http.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", "")
		}
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to delete order", "DELETE_FAILED", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "Order deleted", nil)
}

// ExportOrders downloads the vendor's full order history
// GET /api/orders/export?format=xlsx|csv
func ExportOrders(c echo.Context) error {
	userID := currentUserID(c)

	orders, err := model.ListAllOrders(userID)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to load orders", "EXPORT_FAILED", err.Error())
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "xlsx"
	}

	if format == "xlsx" {
		return exportOrdersToExcel(c, orders, userID)
	}
	return exportOrdersToCSV(c, orders, userID)
}

func exportOrdersToExcel(c echo.Context, orders []model.Order, userID int64) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Orders"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return ErrorResponse(c, 500, "Failed to create Excel sheet", "EXCEL_ERROR", err.Error())
	}

	headers := []string{"No", "Order Number", "Client", "Phone", "Address", "Items", "Total Price", "Status", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", "I1", headerStyle)

	for i, order := range orders {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), order.OrderNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), order.ClientName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), order.ClientPhone)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), order.Address)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), len(order.Items))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), order.TotalPrice)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), order.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), order.CreatedAt.Format("2006-01-02 15:04"))
	}

	f.SetColWidth(sheetName, "A", "A", 5)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 25)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 35)
	f.SetColWidth(sheetName, "F", "F", 8)
	f.SetColWidth(sheetName, "G", "G", 14)
	f.SetColWidth(sheetName, "H", "H", 12)
	f.SetColWidth(sheetName, "I", "I", 18)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("orders_%d.xlsx", userID)
	c.Response().Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	return f.Write(c.Response().Writer)
}

func exportOrdersToCSV(c echo.Context, orders []model.Order, userID int64) error {
	c.Response().Header().Set("Content-Type", "text/csv")
	filename := fmt.Sprintf("orders_%d.csv", userID)
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(c.Response().Writer)
	defer writer.Flush()

	headers := []string{"No", "Order Number", "Client", "Phone", "Address", "Items", "Total Price", "Status", "Created At"}
	if err := writer.Write(headers); err != nil {
		return ErrorResponse(c, 500, "Failed to write CSV headers", "CSV_ERROR", err.Error())
	}

	for i, order := range orders {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(order.OrderNumber, 10),
			order.ClientName,
			order.ClientPhone,
			order.Address,
			strconv.Itoa(len(order.Items)),
			strconv.FormatInt(order.TotalPrice, 10),
			order.Status,
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := writer.Write(record); err != nil {
			return ErrorResponse(c, 500, "Failed to write CSV record", "CSV_ERROR", err.Error())
		}
	}

	return nil
}
