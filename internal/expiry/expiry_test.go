package expiry

import (
	"testing"
	"time"
)

func TestCalculateExpiryTime(t *testing.T) {
	opened := time.Date(2026, 3, 10, 14, 30, 5, 123456789, time.UTC)

	got := CalculateExpiryTime(opened, 3)
	if got.Unix() != opened.Unix()+3*86400 {
		t.Errorf("epoch seconds = %d, want %d", got.Unix(), opened.Unix()+3*86400)
	}
	if got.Nanosecond() != opened.Nanosecond() {
		t.Errorf("nanoseconds = %d, want %d (sub-second remainder must carry through)", got.Nanosecond(), opened.Nanosecond())
	}
}

func TestCalculateExpiryTimeZeroDays(t *testing.T) {
	opened := time.Date(2026, 3, 10, 14, 30, 5, 0, time.UTC)
	if got := CalculateExpiryTime(opened, 0); !got.Equal(opened) {
		t.Errorf("zero shelf life: got %v, want %v", got, opened)
	}
}

func TestCalculateExpiryTimeNegativeDays(t *testing.T) {
	opened := time.Date(2026, 3, 10, 14, 30, 5, 0, time.UTC)
	got := CalculateExpiryTime(opened, -1)
	if !got.Before(opened) {
		t.Errorf("negative shelf life should land before opening: got %v", got)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if !IsExpired(now.Add(-time.Millisecond), now) {
		t.Error("1ms in the past should be expired")
	}
	if IsExpired(now, now) {
		t.Error("boundary equality must not count as expired")
	}
	if IsExpired(now.Add(time.Millisecond), now) {
		t.Error("1ms in the future should not be expired")
	}
}

func TestHoursUntilClampsToZero(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := HoursUntil(now.Add(-5*time.Hour), now); got != 0 {
		t.Errorf("past expiry: got %v, want 0", got)
	}
	if got := HoursUntil(now, now); got != 0 {
		t.Errorf("expiry == now: got %v, want 0", got)
	}
	if got := HoursUntil(now.Add(90*time.Minute), now); got != 1.5 {
		t.Errorf("90 minutes out: got %v, want 1.5", got)
	}
}

func TestStatusTiers(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   Status
	}{
		{"already expired", now.Add(-time.Hour), Status{"Expired", ColorRed}},
		{"expiring now", now, Status{"Expired", ColorRed}},
		{"one hour left", now.Add(time.Hour), Status{"Expiring soon", ColorOrange}},
		{"exactly 24h", now.Add(24 * time.Hour), Status{"Expiring soon", ColorOrange}},
		{"just over 24h", now.Add(24*time.Hour + time.Millisecond), Status{"Expiring soon", ColorYellow}},
		{"exactly 72h", now.Add(72 * time.Hour), Status{"Expiring soon", ColorYellow}},
		{"just over 72h", now.Add(72*time.Hour + time.Millisecond), Status{"Valid", ColorGreen}},
		{"a week out", now.Add(7 * 24 * time.Hour), Status{"Valid", ColorGreen}},
	}
	for _, tt := range tests {
		if got := StatusAt(tt.expiry, now); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
