package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Overlaps(t *testing.T) {
	b := Booking{StartTime: "18:00", DurationMinutes: 60}

	assert.True(t, b.Overlaps("18:30", "19:30"))
	assert.True(t, b.Overlaps("17:00", "20:00"))
	assert.True(t, b.Overlaps("18:00", "19:00"))
	assert.False(t, b.Overlaps("19:00", "20:00"), "touching ranges do not overlap")
	assert.False(t, b.Overlaps("17:00", "18:00"))
}

func TestBooking_CanTransitionTo(t *testing.T) {
	confirmed := Booking{Status: StatusConfirmed}
	checkedIn := Booking{Status: StatusCheckedIn}
	completed := Booking{Status: StatusCompleted}
	cancelled := Booking{Status: StatusCancelled}

	assert.True(t, confirmed.CanTransitionTo(StatusCheckedIn))
	assert.True(t, confirmed.CanTransitionTo(StatusCancelled))
	assert.True(t, checkedIn.CanTransitionTo(StatusCompleted))
	assert.True(t, checkedIn.CanTransitionTo(StatusCancelled))

	assert.False(t, checkedIn.CanTransitionTo(StatusCheckedIn))
	assert.False(t, completed.CanTransitionTo(StatusCancelled))
	assert.False(t, cancelled.CanTransitionTo(StatusConfirmed))
	assert.False(t, confirmed.CanTransitionTo(StatusConfirmed))
}

func TestBooking_IsActive(t *testing.T) {
	for _, status := range ActiveStatuses {
		b := Booking{Status: status}
		assert.True(t, b.IsActive(), status)
	}
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
}

func TestGroupFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, GroupFilter{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 0, GroupFilter{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, GroupFilter{Page: 3, PageSize: 20}.Offset())
}
