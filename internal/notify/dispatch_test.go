package notify

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/tossit/internal/model"
)

type fakeSink struct {
	mu         sync.Mutex
	permission Permission
	sent       []Notification
}

func (f *fakeSink) Permission() Permission { return f.permission }

func (f *fakeSink) Send(_ context.Context, _ int64, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeSink) notifications() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.sent...)
}

func newTestDispatcher(perm Permission) (*Dispatcher, *fakeSink) {
	sink := &fakeSink{permission: perm}
	d := NewDispatcher(sink, slog.Default())
	d.now = func() time.Time { return time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC) }
	return d, sink
}

func TestDispatchNoopWithoutPermission(t *testing.T) {
	for _, perm := range []Permission{PermissionUnsupported, PermissionDefault, PermissionDenied} {
		d, sink := newTestDispatcher(perm)

		d.SingleExpiredItem(context.Background(), 1, model.Item{ProductName: "Milk", Area: "bar"})
		d.MultipleExpiredItems(context.Background(), 1, 5)
		d.DailySummary(context.Background(), 1, 3)

		if got := sink.notifications(); len(got) != 0 {
			t.Errorf("permission %q: sent %d notifications, want 0", perm, len(got))
		}
	}
}

func TestSingleExpiredTagEmbedsNameAndTime(t *testing.T) {
	d, sink := newTestDispatcher(PermissionGranted)

	d.SingleExpiredItem(context.Background(), 1, model.Item{ProductName: "Milk", Area: "bar"})

	sent := sink.notifications()
	if len(sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sent))
	}
	wantTag := "expired-Milk-" + "1773183600" // 2026-03-10 23:00:00 UTC
	if sent[0].Tag != wantTag {
		t.Errorf("tag = %q, want %q", sent[0].Tag, wantTag)
	}
	if !strings.Contains(sent[0].Body, "Milk") {
		t.Errorf("body %q should name the product", sent[0].Body)
	}
}

func TestBatchTagsAreFixed(t *testing.T) {
	d, sink := newTestDispatcher(PermissionGranted)
	ctx := context.Background()

	d.MultipleExpiredItems(ctx, 1, 5)
	d.DailySummary(ctx, 1, 7)
	d.DiscardReminders(ctx, 1, 4)
	d.AdminUnattendedItems(ctx, 1, 2)

	wantTags := []string{TagMultipleExpired, TagDailySummary, TagEveningReminders, TagAdminExpired}
	sent := sink.notifications()
	if len(sent) != len(wantTags) {
		t.Fatalf("sent = %d, want %d", len(sent), len(wantTags))
	}
	for i, n := range sent {
		if n.Tag != wantTags[i] {
			t.Errorf("notification %d tag = %q, want %q", i, n.Tag, wantTags[i])
		}
	}
}

func TestDismissTimersDistinctPerKind(t *testing.T) {
	d, sink := newTestDispatcher(PermissionGranted)
	ctx := context.Background()
	u := model.User{Name: "Avery"}

	d.ShiftEnded(ctx, 1, u)                                             // 20s
	d.SingleExpiredItem(ctx, 1, model.Item{ProductName: "Milk"})        // 30s
	d.MultipleExpiredItems(ctx, 1, 5)                                   // 45s
	d.DailySummary(ctx, 1, 7)                                           // 60s

	want := []time.Duration{20 * time.Second, 30 * time.Second, 45 * time.Second, 60 * time.Second}
	sent := sink.notifications()
	if len(sent) != len(want) {
		t.Fatalf("sent = %d, want %d", len(sent), len(want))
	}
	for i, n := range sent {
		if n.DismissAfter != want[i] {
			t.Errorf("notification %d dismiss = %v, want %v", i, n.DismissAfter, want[i])
		}
	}
}

func TestShiftWarningRequiresInteraction(t *testing.T) {
	d, sink := newTestDispatcher(PermissionGranted)

	d.ShiftEndingSoon(context.Background(), 1, model.User{Name: "Avery"})
	d.ShiftEnded(context.Background(), 1, model.User{Name: "Avery"})

	sent := sink.notifications()
	if len(sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(sent))
	}
	if !sent[0].RequireInteraction {
		t.Error("shift warning should persist until dismissed")
	}
	if sent[1].RequireInteraction {
		t.Error("shift-ended notice should auto-dismiss")
	}
}
