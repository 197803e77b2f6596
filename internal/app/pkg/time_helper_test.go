package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWholeDaysBetween(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, WholeDaysBetween(now, now.AddDate(0, 0, 10)))
	assert.Equal(t, -3, WholeDaysBetween(now, now.AddDate(0, 0, -3)))
	assert.Equal(t, 3, WholeDaysBetween(now.AddDate(0, 0, -3), now))
	assert.Equal(t, 0, WholeDaysBetween(now, now))

	// Partial days truncate toward zero
	assert.Equal(t, 9, WholeDaysBetween(now, now.AddDate(0, 0, 10).Add(-time.Millisecond)))
	assert.Equal(t, 0, WholeDaysBetween(now, now.Add(23*time.Hour)))
}
