package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/tossit/internal/model"
)

// Fixed dedup tags for the batch-style message kinds. Single-item kinds embed
// the product name so alerts about different items stay distinct.
const (
	TagMultipleExpired  = "multiple-expired-items"
	TagDailySummary     = "daily-summary"
	TagShiftEnding      = "shift-ending"
	TagShiftEnded       = "shift-ended"
	TagEveningReminders = "evening-discard-reminders"
	TagAdminExpired     = "admin-expired-items"
)

// Dispatcher formats and emits the user-facing notifications. Every emit is a
// no-op when the sink is unsupported or permission has not been granted, and
// none of them ever report an error to the caller.
type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
	now    func() time.Time
}

func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sink: sink, logger: logger, now: time.Now}
}

// SingleExpiredItem alerts staff about one expired item.
func (d *Dispatcher) SingleExpiredItem(ctx context.Context, businessID int64, item model.Item) {
	d.send(ctx, businessID, Notification{
		Title:        "Item expired",
		Body:         fmt.Sprintf("%s (%s) has expired and needs to be thrown out", item.ProductName, item.Area),
		Tag:          fmt.Sprintf("expired-%s-%d", item.ProductName, d.now().Unix()),
		URL:          "/dashboard?tab=expired",
		DismissAfter: 30 * time.Second,
	})
}

// MultipleExpiredItems alerts staff about a batch of expired items with a
// single coalesced notification.
func (d *Dispatcher) MultipleExpiredItems(ctx context.Context, businessID int64, count int) {
	d.send(ctx, businessID, Notification{
		Title:        "Expired items",
		Body:         fmt.Sprintf("%d items have expired and need to be thrown out", count),
		Tag:          TagMultipleExpired,
		URL:          "/dashboard?tab=expired",
		DismissAfter: 45 * time.Second,
	})
}

// DailySummary is the admin morning digest of outstanding expired items.
func (d *Dispatcher) DailySummary(ctx context.Context, businessID int64, count int) {
	d.send(ctx, businessID, Notification{
		Title:        "Morning summary",
		Body:         fmt.Sprintf("%d expired items are waiting to be discarded", count),
		Tag:          TagDailySummary,
		URL:          "/admin",
		DismissAfter: 60 * time.Second,
	})
}

// ShiftEndingSoon warns a user 30 minutes before the forced midnight end.
func (d *Dispatcher) ShiftEndingSoon(ctx context.Context, businessID int64, user model.User) {
	d.send(ctx, businessID, Notification{
		Title:              "Shift ending soon",
		Body:               fmt.Sprintf("%s, your shift ends automatically at midnight", user.Name),
		Tag:                TagShiftEnding,
		URL:                "/dashboard",
		RequireInteraction: true,
		DismissAfter:       30 * time.Second,
	})
}

// ShiftEnded tells a user their shift was ended at midnight.
func (d *Dispatcher) ShiftEnded(ctx context.Context, businessID int64, user model.User) {
	d.send(ctx, businessID, Notification{
		Title:        "Shift ended",
		Body:         fmt.Sprintf("%s's shift was ended automatically", user.Name),
		Tag:          TagShiftEnded,
		URL:          "/dashboard",
		DismissAfter: 20 * time.Second,
	})
}

// DiscardReminder is the evening reminder for exactly one outstanding item.
func (d *Dispatcher) DiscardReminder(ctx context.Context, businessID int64, item model.Item) {
	d.send(ctx, businessID, Notification{
		Title:        "Discard reminder",
		Body:         fmt.Sprintf("%s (%s) should be thrown out before close", item.ProductName, item.Area),
		Tag:          fmt.Sprintf("discard-reminder-%s", item.ProductName),
		URL:          "/dashboard?tab=expired",
		DismissAfter: 30 * time.Second,
	})
}

// DiscardReminders is the evening reminder when more than one item is due.
func (d *Dispatcher) DiscardReminders(ctx context.Context, businessID int64, count int) {
	d.send(ctx, businessID, Notification{
		Title:        "Discard reminders",
		Body:         fmt.Sprintf("%d items should be thrown out before close", count),
		Tag:          TagEveningReminders,
		URL:          "/dashboard?tab=expired",
		DismissAfter: 45 * time.Second,
	})
}

// AdminUnattendedItems tells admins about items that expired before today and
// were never discarded.
func (d *Dispatcher) AdminUnattendedItems(ctx context.Context, businessID int64, count int) {
	d.send(ctx, businessID, Notification{
		Title:              "Unattended expired items",
		Body:               fmt.Sprintf("%d items expired before today and were never thrown out", count),
		Tag:                TagAdminExpired,
		URL:                "/admin",
		RequireInteraction: true,
		DismissAfter:       60 * time.Second,
	})
}

func (d *Dispatcher) send(ctx context.Context, businessID int64, n Notification) {
	if d.sink.Permission() != PermissionGranted {
		return
	}
	if err := d.sink.Send(ctx, businessID, n); err != nil {
		d.logger.Error("send notification", "business_id", businessID, "tag", n.Tag, "error", err)
	}
}
