package orders

import "time"

type Order struct {
	ID           int64     `json:"order_id"`
	UserID       int64     `json:"user_id"`
	RestaurantID int64     `json:"restaurant_id"`
	Status       Status    `json:"status"`
	TotalCents   int       `json:"total_cents"`
	OrderDate    time.Time `json:"order_date"`
}

type OrderDetail struct {
	OrderID       int64  `json:"order_id"`
	ItemID        int64  `json:"item_id"`
	ItemName      string `json:"item_name"`
	Quantity      int    `json:"quantity"`
	SubtotalCents int    `json:"subtotal_cents"`
}

type Payment struct {
	OrderID     int64  `json:"order_id"`
	PaymentType string `json:"payment_type"`
	AmountCents int    `json:"amount_cents"`
	Status      string `json:"status"` // pending | completed
}

type Delivery struct {
	OrderID     int64   `json:"order_id"`
	Destination string  `json:"destination"`
	PartnerID   int64   `json:"partner_id"`
	DistanceKm  float64 `json:"distance_km"`
	Status      string  `json:"status"` // assigned | picked_up | delivered
}

type DeliveryPartner struct {
	ID     int64  `json:"partner_id"`
	Name   string `json:"name"`
	Status string `json:"status"` // available | busy
}

// OrderSummary is the history-listing projection (order + restaurant + payment).
type OrderSummary struct {
	Order
	RestaurantName    string        `json:"restaurant_name"`
	RestaurantAddress string        `json:"restaurant_address"`
	PaymentType       string        `json:"payment_type,omitempty"`
	PaymentStatus     string        `json:"payment_status,omitempty"`
	Items             []OrderDetail `json:"items"`
}

// OrderView is the single-order projection with the optional delivery leg.
type OrderView struct {
	OrderSummary
	Destination    string  `json:"destination,omitempty"`
	DistanceKm     float64 `json:"distance_km,omitempty"`
	DeliveryStatus string  `json:"delivery_status,omitempty"`
	PartnerName    string  `json:"delivery_partner,omitempty"`
}

// AdminOrder joins the ordering user for the admin listing.
type AdminOrder struct {
	Order
	Username       string `json:"username"`
	Email          string `json:"email"`
	RestaurantName string `json:"restaurant_name"`
	PaymentType    string `json:"payment_type,omitempty"`
	PaymentStatus  string `json:"payment_status,omitempty"`
}
