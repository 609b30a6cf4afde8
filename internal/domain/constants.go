package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default policy values, used when no policy is stored for the venue or court
const (
	DefaultMaxSpanMonths       = 3
	DefaultDurationStepMinutes = 30
	DefaultMaxDurationSteps    = 8
	DefaultAdvanceBookingDays  = 0 // 0 = unlimited
)

// Business validation constants
const (
	MaxNotesLength        = 500
	MaxCustomerNameLength = 100
	MaxSearchLength       = 100
	DefaultPageSize       = 20
	MaxPageSize           = 100
)

// ActiveStatuses statuses of bookings that occupy a court
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCheckedIn,
	StatusCompleted,
}

// CancellableStatuses statuses a booking can be cancelled from
var CancellableStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCheckedIn,
}
