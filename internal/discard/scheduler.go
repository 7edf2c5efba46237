package discard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/tossit/internal/expiry"
	"github.com/dukerupert/tossit/internal/model"
	"github.com/dukerupert/tossit/internal/notify"

	"go.uber.org/multierr"
)

// ItemStore is the slice of the item store the scheduler reads.
type ItemStore interface {
	ListNonDiscarded(businessID int64) ([]model.Item, error)
	ListBusinessIDs() ([]int64, error)
}

// Status is a read-only projection of the scheduler's process state.
type Status struct {
	Active      bool `json:"active"`
	HasInterval bool `json:"has_interval"`
}

// Scheduler runs the three daily discard checks on a 60-second tick: the
// 23:00 evening reminder, the 22:00 pre-evening lookahead, and the 08:00
// admin sweep. One instance owns at most one timer.
type Scheduler struct {
	mu       sync.Mutex
	items    ItemStore
	dispatch *notify.Dispatcher
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	active   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(items ItemStore, dispatch *notify.Dispatcher, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		items:    items,
		dispatch: dispatch,
		interval: 60 * time.Second,
		now:      time.Now,
		logger:   logger,
	}
}

// Start begins the tick loop. Returns false if the scheduler is already
// running; the active guard keeps a process from running duplicate timers.
func (s *Scheduler) Start(ctx context.Context) bool {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return false
	}
	s.active = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
	return true
}

// Stop halts future ticks. An in-flight tick is not cancelled.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.active = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// GetStatus reports whether the scheduler is active and holds a timer.
func (s *Scheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Active: s.active, HasInterval: s.done != nil}
}

func (s *Scheduler) tick(ctx context.Context) {
	businessIDs, err := s.items.ListBusinessIDs()
	if err != nil {
		s.logger.Error("list businesses", "error", err)
		return
	}

	now := s.now()
	hour, minute := now.Hour(), now.Minute()

	for _, businessID := range businessIDs {
		// Gates are independent: a failure in one is logged and must not
		// block the others within the same tick.
		if hour == 23 && minute == 0 {
			if err := s.eveningReminder(ctx, businessID, now); err != nil {
				s.logger.Error("evening reminder", "business_id", businessID, "error", err)
			}
		}
		if hour == 22 && minute == 0 {
			if err := s.preEveningLookahead(ctx, businessID, now); err != nil {
				s.logger.Error("pre-evening lookahead", "business_id", businessID, "error", err)
			}
		}
		if hour == 8 && minute == 0 {
			if err := s.morningAdminCheck(ctx, businessID, now); err != nil {
				s.logger.Error("morning admin check", "business_id", businessID, "error", err)
			}
		}
	}
}

// ForceRun executes all three checks for a business regardless of the clock.
// Used for manual triggering; errors from the individual checks are combined
// so one failed check never hides another.
func (s *Scheduler) ForceRun(ctx context.Context, businessID int64) error {
	now := s.now()
	return multierr.Combine(
		s.eveningReminder(ctx, businessID, now),
		s.preEveningLookahead(ctx, businessID, now),
		s.morningAdminCheck(ctx, businessID, now),
	)
}

// eveningReminder nudges staff about items already expired: one reminder for
// a single item, a coalesced one for several.
func (s *Scheduler) eveningReminder(ctx context.Context, businessID int64, now time.Time) error {
	items, err := s.items.ListNonDiscarded(businessID)
	if err != nil {
		return fmt.Errorf("evening reminder: %w", err)
	}

	var due []model.Item
	for _, item := range items {
		if expiry.IsExpired(item.ExpiryTime, now) {
			due = append(due, item)
		}
	}
	s.remind(ctx, businessID, due)
	return nil
}

// preEveningLookahead covers items that will expire before the day is over,
// window [now, end of today] inclusive of both bounds.
func (s *Scheduler) preEveningLookahead(ctx context.Context, businessID int64, now time.Time) error {
	items, err := s.items.ListNonDiscarded(businessID)
	if err != nil {
		return fmt.Errorf("pre-evening lookahead: %w", err)
	}

	endOfToday := startOfDay(now).Add(24*time.Hour - time.Nanosecond)
	var due []model.Item
	for _, item := range items {
		if !item.ExpiryTime.Before(now) && !item.ExpiryTime.After(endOfToday) {
			due = append(due, item)
		}
	}
	s.remind(ctx, businessID, due)
	return nil
}

// morningAdminCheck reports items that expired before the end of yesterday
// and were never thrown out.
func (s *Scheduler) morningAdminCheck(ctx context.Context, businessID int64, now time.Time) error {
	items, err := s.items.ListNonDiscarded(businessID)
	if err != nil {
		return fmt.Errorf("morning admin check: %w", err)
	}

	cutoff := startOfDay(now).Add(-time.Millisecond) // 23:59:59.999 yesterday
	count := 0
	for _, item := range items {
		if item.ExpiryTime.Before(cutoff) {
			count++
		}
	}
	if count > 0 {
		s.dispatch.AdminUnattendedItems(ctx, businessID, count)
	}
	return nil
}

func (s *Scheduler) remind(ctx context.Context, businessID int64, due []model.Item) {
	switch {
	case len(due) == 1:
		s.dispatch.DiscardReminder(ctx, businessID, due[0])
	case len(due) > 1:
		s.dispatch.DiscardReminders(ctx, businessID, len(due))
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
