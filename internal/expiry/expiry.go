package expiry

import "time"

// Status colors used by dashboard badges.
const (
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorYellow = "yellow"
	ColorGreen  = "green"
)

// Status is the human-readable urgency of an item's expiry.
type Status struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// CalculateExpiryTime returns the instant an item opened at openingTime must
// be discarded: shelfLifeDays whole days added in epoch seconds, with the
// sub-second remainder of openingTime carried through unchanged. Negative
// shelfLifeDays is not validated and yields a time before opening.
func CalculateExpiryTime(openingTime time.Time, shelfLifeDays int) time.Time {
	sec := openingTime.Unix() + int64(shelfLifeDays)*86400
	return time.Unix(sec, int64(openingTime.Nanosecond())).In(openingTime.Location())
}

// IsExpired reports whether expiryTime has passed at millisecond resolution.
// An expiry exactly equal to now is not yet expired.
func IsExpired(expiryTime, now time.Time) bool {
	return expiryTime.UnixMilli() < now.UnixMilli()
}

// HoursUntil returns the fractional hours remaining before expiryTime,
// clamped to zero once the item has expired.
func HoursUntil(expiryTime, now time.Time) float64 {
	ms := expiryTime.UnixMilli() - now.UnixMilli()
	if ms <= 0 {
		return 0
	}
	return float64(ms) / float64(time.Hour/time.Millisecond)
}

// StatusAt maps the time remaining before expiryTime to a display status.
// Tier bounds are inclusive: exactly 24h remaining is still orange, exactly
// 72h is still yellow.
func StatusAt(expiryTime, now time.Time) Status {
	hours := HoursUntil(expiryTime, now)
	switch {
	case hours == 0:
		return Status{Text: "Expired", Color: ColorRed}
	case hours <= 24:
		return Status{Text: "Expiring soon", Color: ColorOrange}
	case hours <= 72:
		return Status{Text: "Expiring soon", Color: ColorYellow}
	default:
		return Status{Text: "Valid", Color: ColorGreen}
	}
}
