package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidPattern is returned when a recurring pattern violates its invariants
var ErrInvalidPattern = errors.New("invalid recurring pattern")

// Pattern is the recurrence rule of a group before expansion.
// StartDate and EndDate are civil dates stored as midnight UTC.
type Pattern struct {
	CourtID       int64
	TimeSlotID    int64
	DurationHours float64
	Weekdays      []int // 0 = Sunday ... 6 = Saturday
	StartDate     time.Time
	EndDate       time.Time
}

// ExpandedDate is a single calendar date produced by a pattern
type ExpandedDate struct {
	Date    time.Time
	Weekday int
}

// DurationMinutes returns the pattern duration in whole minutes
func (p Pattern) DurationMinutes() int {
	return int(math.Round(p.DurationHours * 60))
}

// HasWeekday reports whether the weekday belongs to the pattern
func (p Pattern) HasWeekday(wd int) bool {
	for _, d := range p.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the pattern against a policy
func (p Pattern) Validate(policy BookingPolicy) error {
	if p.CourtID <= 0 {
		return fmt.Errorf("%w: courtId must be positive", ErrInvalidPattern)
	}
	if p.TimeSlotID <= 0 {
		return fmt.Errorf("%w: timeSlotId must be positive", ErrInvalidPattern)
	}
	if len(p.Weekdays) == 0 {
		return fmt.Errorf("%w: at least one weekday is required", ErrInvalidPattern)
	}

	seen := make(map[int]struct{}, len(p.Weekdays))
	for _, wd := range p.Weekdays {
		if wd < 0 || wd > 6 {
			return fmt.Errorf("%w: weekday %d is out of range 0..6", ErrInvalidPattern, wd)
		}
		if _, dup := seen[wd]; dup {
			return fmt.Errorf("%w: weekday %d is duplicated", ErrInvalidPattern, wd)
		}
		seen[wd] = struct{}{}
	}

	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidPattern)
	}
	start, end := DateOf(p.StartDate), DateOf(p.EndDate)
	if end.Before(start) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidPattern)
	}
	if policy.MaxSpanMonths > 0 && end.After(AddMonthsClamped(start, policy.MaxSpanMonths)) {
		return fmt.Errorf("%w: date range exceeds %d months", ErrInvalidPattern, policy.MaxSpanMonths)
	}

	return validateDuration(p.DurationHours, policy)
}

func validateDuration(hours float64, policy BookingPolicy) error {
	minutes := hours * 60
	if minutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidPattern)
	}

	step := policy.DurationStepMinutes
	if step <= 0 {
		step = DefaultDurationStepMinutes
	}
	steps := minutes / float64(step)
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		return fmt.Errorf("%w: duration must be a multiple of %d minutes", ErrInvalidPattern, step)
	}
	if policy.MaxDurationSteps > 0 && int(math.Round(steps)) > policy.MaxDurationSteps {
		return fmt.Errorf("%w: duration exceeds %d minutes", ErrInvalidPattern, step*policy.MaxDurationSteps)
	}
	return nil
}

// Expand returns every date in [StartDate, EndDate] whose weekday is in the pattern, in ascending order.
// An empty result is valid.
func (p Pattern) Expand() []ExpandedDate {
	start, end := DateOf(p.StartDate), DateOf(p.EndDate)
	if end.Before(start) || len(p.Weekdays) == 0 {
		return []ExpandedDate{}
	}

	var allowed [7]bool
	for _, wd := range p.Weekdays {
		if wd >= 0 && wd <= 6 {
			allowed[wd] = true
		}
	}

	dates := make([]ExpandedDate, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := int(d.Weekday())
		if allowed[wd] {
			dates = append(dates, ExpandedDate{Date: d, Weekday: wd})
		}
	}
	return dates
}

// DateOf truncates t to its civil date at midnight UTC, keeping t's own year/month/day
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped adds n calendar months to a civil date, clamping the day to the
// last day of the target month (2024-11-30 + 3 months = 2025-02-28)
func AddMonthsClamped(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d.Day(), lastDay), 0, 0, 0, 0, time.UTC)
}

// Today returns the current civil date in the venue location
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// DayType distinguishes weekday and weekend rates
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// DayTypeOf returns the rate day type of a weekday (0 = Sunday)
func DayTypeOf(weekday int) DayType {
	if weekday == int(time.Saturday) || weekday == int(time.Sunday) {
		return DayTypeWeekend
	}
	return DayTypeWeekday
}
