package model

import "time"

// Areas an opened item can belong to.
const (
	AreaBar     = "bar"
	AreaKitchen = "kitchen"
)

// Item is a perishable product a staff member has opened. Once opened it ages
// against its shelf life until it is thrown out.
type Item struct {
	ID          int64     `json:"id"`
	BusinessID  int64     `json:"business_id"`
	UserID      *int64    `json:"user_id,omitempty"`
	ProductName string    `json:"product_name"`
	Area        string    `json:"area"`
	OpeningTime time.Time `json:"opening_time"`
	ExpiryTime  time.Time `json:"expiry_time"`
	IsThrown    bool      `json:"is_thrown"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShelfLifeProduct is a catalog entry mapping a product to the number of days
// it stays usable after opening.
type ShelfLifeProduct struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ShelfLifeDays int    `json:"shelf_life_days"`
	Area          string `json:"area"`
}
