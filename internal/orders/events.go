package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "OrderPlaced"
)

type Envelope struct {
	EventID       string          `json:"event_id"` // uuid
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type PlacedItem struct {
	ItemID        int64 `json:"item_id"`
	Quantity      int   `json:"quantity"`
	SubtotalCents int   `json:"subtotal_cents"`
}

type OrderPlacedPayload struct {
	OrderID      int64        `json:"order_id"`
	UserID       int64        `json:"user_id"`
	RestaurantID int64        `json:"restaurant_id"`
	Items        []PlacedItem `json:"items"`
	TotalCents   int          `json:"total_cents"`
	HasDelivery  bool         `json:"has_delivery"`
}
