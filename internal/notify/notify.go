package notify

import (
	"context"
	"time"
)

// Permission is the delivery capability of a sink. Anything other than
// granted turns every dispatch into a silent no-op.
type Permission string

const (
	PermissionUnsupported Permission = "unsupported"
	PermissionDefault     Permission = "default"
	PermissionDenied      Permission = "denied"
	PermissionGranted     Permission = "granted"
)

// Notification is one titled alert for the staff of a business. Tag is an
// opaque dedup key: alerts sharing a tag coalesce at the sink's discretion,
// which is what keeps a batch summary from stacking up as N separate toasts.
type Notification struct {
	Title              string
	Body               string
	Tag                string
	URL                string
	RequireInteraction bool
	DismissAfter       time.Duration
}

// Sink delivers notifications to every registered device of a business.
// Implementations must be safe for concurrent use.
type Sink interface {
	Permission() Permission
	Send(ctx context.Context, businessID int64, n Notification) error
}
