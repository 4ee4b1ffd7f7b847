package menu

import (
	"time"
)

type Item struct {
	ID                int64     `json:"item_id"`
	RestaurantID      int64     `json:"restaurant_id"`
	Name              string    `json:"item_name"`
	PriceCents        int       `json:"price_cents"`
	Category          string    `json:"category"`
	Stock             int       `json:"stock"`
	Available         bool      `json:"availability"`
	ImageURL          *string   `json:"image_url,omitempty"`
	Rating            float64   `json:"rating"`
	Description       *string   `json:"description,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	RestaurantName    string    `json:"restaurant_name,omitempty"`
	RestaurantAddress string    `json:"restaurant_address,omitempty"`
}

type Restaurant struct {
	ID      int64  `json:"restaurant_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// ItemUpdate carries the partial-update fields for an admin edit; nil means
// leave the column untouched.
type ItemUpdate struct {
	Name        *string  `json:"item_name"`
	PriceCents  *int     `json:"price_cents"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Available   *bool    `json:"availability"`
	ImageURL    *string  `json:"image_url"`
	Rating      *float64 `json:"rating"`
	Description *string  `json:"description"`
}
