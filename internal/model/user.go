package model

import "time"

// User is a staff member of a business. IsOnShift flips true when they clock
// in and false when they clock out or the midnight auto-end catches them.
type User struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"business_id"`
	Name       string    `json:"name"`
	IsAdmin    bool      `json:"is_admin"`
	IsOnShift  bool      `json:"is_on_shift"`
	CreatedAt  time.Time `json:"created_at"`
}
