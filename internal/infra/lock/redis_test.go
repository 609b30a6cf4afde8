package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKeys_SortedAndUnique(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, []string{
		"lock:court:3:2024-02-05",
		"lock:court:3:2024-02-07",
	}, SlotKeys(3, dates))
}

func TestNopLocker(t *testing.T) {
	release, err := NopLocker{}.LockSlots(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.NotPanics(t, release)
}
