package model

import "time"

// PushSubscription is a stored web-push endpoint for one device belonging to
// a business. Subscriptions are provisioned out of band; the server only
// fans notifications out to them and prunes the ones that have expired.
type PushSubscription struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"business_id"`
	UserID     *int64    `json:"user_id,omitempty"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
