package bot

import (
	"encoding/json"
	"fmt"
)

// Event is an inbound conversational event delivered by an open connection.
// Exactly one of the concrete types below is produced per incoming update.
type Event interface {
	event()
}

// StartCommand is sent when a customer opens the bot with /start.
type StartCommand struct {
	ChatID int64
}

// ContactShared is sent when a customer shares their phone number.
type ContactShared struct {
	ChatID int64
	Phone  string
}

// OrderSubmitted carries the raw order payload posted by the catalog
// web-app. Parsing is deferred to the handler so a malformed payload can be
// dropped without tearing down the connection.
type OrderSubmitted struct {
	ChatID int64
	Data   string
}

func (StartCommand) event()   {}
func (ContactShared) event()  {}
func (OrderSubmitted) event() {}

// OrderItem is one ordered bouquet or flower.
type OrderItem struct {
	Image string `json:"image"`
	Price int64  `json:"price"`
}

// OrderPayload is the decoded web-app order submission.
type OrderPayload struct {
	Bouquets []OrderItem `json:"bouquets"`
	Flowers  []OrderItem `json:"flowers"`
}

// ParseOrderPayload decodes the web-app payload into a structured order.
func ParseOrderPayload(data string) (*OrderPayload, error) {
	var payload OrderPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("parse order payload: %w", err)
	}
	return &payload, nil
}
