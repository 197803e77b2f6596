package pkg

import "time"

// WholeDaysBetween returns the number of complete 24h periods from `from`
// to `until`, truncated toward zero. Negative when `until` is in the past.
func WholeDaysBetween(from, until time.Time) int {
	return int(until.Sub(from) / (24 * time.Hour))
}
