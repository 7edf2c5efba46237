package checker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/tossit/internal/expiry"
	"github.com/dukerupert/tossit/internal/model"
	"github.com/dukerupert/tossit/internal/notify"

	"golang.org/x/sync/errgroup"
)

// ItemStore is the slice of the item store the checker reads.
type ItemStore interface {
	ListNonDiscarded(businessID int64) ([]model.Item, error)
	ListBusinessIDs() ([]int64, error)
}

// UserStore lists the users currently clocked in.
type UserStore interface {
	ListOnShift(businessID int64) ([]model.User, error)
}

// ShiftEnder ends one user's shift. Failures are isolated per user.
type ShiftEnder interface {
	EndShift(userID int64) error
}

// Config wires a Checker.
type Config struct {
	Items         ItemStore
	Users         UserStore
	Shifts        ShiftEnder
	Dispatch      *notify.Dispatcher
	AutoEndShifts bool
	Interval      time.Duration
}

// Checker runs the minute-resolution expiry and shift gates. Each public
// check takes a single wall-clock reading and compares hour/minute equality
// against it, so the caller only has to invoke it roughly once a minute.
type Checker struct {
	mu            sync.RWMutex
	items         ItemStore
	users         UserStore
	shifts        ShiftEnder
	dispatch      *notify.Dispatcher
	autoEndShifts bool
	interval      time.Duration
	now           func() time.Time
	logger        *slog.Logger
	cancel        context.CancelFunc
	done          chan struct{}
}

func New(cfg Config, logger *slog.Logger) *Checker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Checker{
		items:         cfg.Items,
		users:         cfg.Users,
		shifts:        cfg.Shifts,
		dispatch:      cfg.Dispatch,
		autoEndShifts: cfg.AutoEndShifts,
		interval:      interval,
		now:           time.Now,
		logger:        logger,
	}
}

// CheckExpiredItems returns the business's non-discarded items that have
// already expired. Query failures are logged and swallowed; callers always
// get a usable (possibly empty) list.
func (c *Checker) CheckExpiredItems(businessID int64) []model.Item {
	items, err := c.items.ListNonDiscarded(businessID)
	if err != nil {
		c.logger.Error("list items", "business_id", businessID, "error", err)
		return nil
	}

	now := c.now()
	var expired []model.Item
	for _, item := range items {
		if expiry.IsExpired(item.ExpiryTime, now) {
			expired = append(expired, item)
		}
	}
	return expired
}

// SendExpiredItemsNotifications evaluates the evening and morning gates
// against the current clock and notifies accordingly. userID optionally
// narrows the evening alerts to one user's items; the morning summary always
// carries the unfiltered count.
func (c *Checker) SendExpiredItemsNotifications(ctx context.Context, businessID int64, userID *int64) {
	expired := c.CheckExpiredItems(businessID)
	if len(expired) == 0 {
		return
	}

	filtered := expired
	if userID != nil {
		filtered = nil
		for _, item := range expired {
			if item.UserID != nil && *item.UserID == *userID {
				filtered = append(filtered, item)
			}
		}
	}
	if len(filtered) == 0 {
		return
	}

	now := c.now()
	hour, minute := now.Hour(), now.Minute()

	// Evening gate: 23:00, 23:20, 23:40
	if hour == 23 && minute%20 == 0 {
		if len(filtered) > 3 {
			c.dispatch.MultipleExpiredItems(ctx, businessID, len(filtered))
		} else {
			for _, item := range filtered {
				c.dispatch.SingleExpiredItem(ctx, businessID, item)
			}
		}
	}

	// Morning gate: 08:00 daily summary, unfiltered count
	if hour == 8 && minute == 0 {
		c.dispatch.DailySummary(ctx, businessID, len(expired))
	}
}

// ManageShiftsAtMidnight warns on-shift users at 23:30 and force-ends their
// shifts at 00:00. End-shift calls run concurrently and independently; the
// shift-ended notification fires whether or not the call succeeded.
func (c *Checker) ManageShiftsAtMidnight(ctx context.Context, businessID int64) {
	now := c.now()
	hour, minute := now.Hour(), now.Minute()

	if hour == 23 && minute == 30 {
		for _, user := range c.listOnShift(businessID) {
			c.dispatch.ShiftEndingSoon(ctx, businessID, user)
		}
	}

	if hour == 0 && minute == 0 && c.autoEndShifts {
		users := c.listOnShift(businessID)
		if len(users) == 0 {
			return
		}

		var g errgroup.Group
		for _, user := range users {
			g.Go(func() error {
				err := c.shifts.EndShift(user.ID)
				c.dispatch.ShiftEnded(ctx, businessID, user)
				if err != nil {
					return fmt.Errorf("end shift for user %d: %w", user.ID, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			c.logger.Error("auto-end shifts", "business_id", businessID, "error", err)
		}
	}
}

func (c *Checker) listOnShift(businessID int64) []model.User {
	users, err := c.users.ListOnShift(businessID)
	if err != nil {
		c.logger.Error("list on-shift users", "business_id", businessID, "error", err)
		return nil
	}
	return users
}

// Start begins the periodic check loop. Exactly one timer is created; the
// caller owns the handle and must not start duplicates.
func (c *Checker) Start(ctx context.Context) {
	c.mu.Lock()
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.tick(ctx)
			}
		}
	}()
}

// Stop halts future ticks. An in-flight tick is not cancelled.
func (c *Checker) Stop() {
	c.mu.RLock()
	cancel := c.cancel
	done := c.done
	c.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (c *Checker) tick(ctx context.Context) {
	businessIDs, err := c.items.ListBusinessIDs()
	if err != nil {
		c.logger.Error("list businesses", "error", err)
		return
	}

	for _, businessID := range businessIDs {
		c.SendExpiredItemsNotifications(ctx, businessID, nil)
		c.ManageShiftsAtMidnight(ctx, businessID)
	}
}
