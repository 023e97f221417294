package ws

import "time"

// Event names pushed to connected dashboards.
const (
	EventBotStatusChanged = "bot_status_changed"
	EventOrderCreated     = "order_created"
)

// WsEvent is the envelope broadcast to every websocket client.
type WsEvent struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// BotStatusChangedData reports a vendor bot starting or stopping.
type BotStatusChangedData struct {
	TenantID int64  `json:"tenantId"`
	Status   string `json:"status"` // started | stopped
}

// OrderCreatedData reports a new order submitted from the web-app.
type OrderCreatedData struct {
	TenantID    int64 `json:"tenantId"`
	OrderID     int64 `json:"orderId"`
	OrderNumber int64 `json:"orderNumber"`
	TotalPrice  int64 `json:"totalPrice"`
}
