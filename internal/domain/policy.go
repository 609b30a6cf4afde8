package domain

import "time"

// BookingPolicy recurring booking limits.
// Supports hierarchical configuration:
// 1. Court-specific (CourtID set)
// 2. Venue-wide (CourtID nil)
// 3. Built-in defaults
type BookingPolicy struct {
	ID                  int64
	CourtID             *int64
	MaxSpanMonths       int
	DurationStepMinutes int
	MaxDurationSteps    int
	AdvanceBookingDays  int // 0 = unlimited
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DefaultBookingPolicy returns the built-in policy
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		MaxSpanMonths:       DefaultMaxSpanMonths,
		DurationStepMinutes: DefaultDurationStepMinutes,
		MaxDurationSteps:    DefaultMaxDurationSteps,
		AdvanceBookingDays:  DefaultAdvanceBookingDays,
	}
}

// IsVenueWide returns true if this policy applies to all courts
func (p *BookingPolicy) IsVenueWide() bool {
	return p.CourtID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *BookingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// MaxDurationMinutes returns the longest allowed duration
func (p *BookingPolicy) MaxDurationMinutes() int {
	return p.DurationStepMinutes * p.MaxDurationSteps
}
