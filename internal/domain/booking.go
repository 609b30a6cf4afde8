package domain

import (
	"slices"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true for known booking statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is one concrete dated court reservation.
// Instances produced by a recurring group carry GroupID; stand-alone bookings do not.
type Booking struct {
	ID              int64
	Code            string
	GroupID         *int64
	CourtID         int64
	TimeSlotID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus
	PaymentStatus   PaymentStatus

	// Snapshot data, never recomputed after creation
	Price         float64
	CustomerName  string
	CustomerPhone string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EndTime returns the end of the booking time range
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// IsActive returns true if the booking occupies its court
func (b *Booking) IsActive() bool {
	return slices.Contains(ActiveStatuses, b.Status)
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCheckedIn
}

// IsResolved returns true once the booking no longer awaits play
func (b *Booking) IsResolved() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanTransitionTo reports whether the status change is allowed:
// confirmed -> checked_in -> completed, and cancellation from confirmed or checked_in
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch next {
	case StatusCheckedIn:
		return b.Status == StatusConfirmed
	case StatusCompleted:
		return b.Status == StatusConfirmed || b.Status == StatusCheckedIn
	case StatusCancelled:
		return b.CanBeCancelled()
	default:
		return false
	}
}

// Overlaps reports whether the booking overlaps [start, end) on the same court and date.
// Touching ranges (end == start) do not overlap.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	bookingEnd, err := b.EndTime()
	if err != nil {
		return true
	}
	return b.StartTime.IsBefore(end) && bookingEnd.IsAfter(start)
}
