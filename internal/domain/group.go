package domain

import "time"

// GroupStatus lifecycle status of a recurring group
type GroupStatus string

const (
	GroupActive    GroupStatus = "active"
	GroupCompleted GroupStatus = "completed"
	GroupCancelled GroupStatus = "cancelled"
)

// IsValid returns true for known group statuses
func (s GroupStatus) IsValid() bool {
	return s == GroupActive || s == GroupCompleted || s == GroupCancelled
}

// PaymentMode how a group is paid
type PaymentMode string

const (
	PaymentPerSession PaymentMode = "per_session"
	PaymentBulk       PaymentMode = "bulk"
)

// IsValid returns true for known payment modes
func (m PaymentMode) IsValid() bool {
	return m == PaymentPerSession || m == PaymentBulk
}

// PaymentStatus payment state of a booking or bulk balance
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// IsValid returns true for known payment statuses
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentPartial || s == PaymentPaid
}

// SkipReason why an expanded date was not booked
type SkipReason string

const (
	SkipBlocked  SkipReason = "blocked"
	SkipConflict SkipReason = "conflict"
)

// SkippedDate a date of the pattern that was not booked
type SkippedDate struct {
	Date    time.Time
	Weekday int
	Reason  SkipReason
}

// CustomerSnapshot customer data copied at creation time.
// Later customer edits never change historical groups.
type CustomerSnapshot struct {
	Name     string
	Nickname string
	Phone    string
	Email    string
	IsMember bool
}

// GroupCounts instance counters, always derived from the bookings table
type GroupCounts struct {
	Total     int
	Completed int
	Cancelled int
}

// Active returns the number of non-cancelled instances
func (c GroupCounts) Active() int {
	return c.Total - c.Cancelled
}

// BulkPayment single running balance of a bulk-mode group
type BulkPayment struct {
	TotalAmount float64
	PaidAmount  float64
}

// Status derives the payment status from the balance
func (p BulkPayment) Status() PaymentStatus {
	switch {
	case p.PaidAmount <= 0:
		return PaymentPending
	case p.PaidAmount < p.TotalAmount:
		return PaymentPartial
	default:
		return PaymentPaid
	}
}

// Remaining returns the unpaid amount, never negative
func (p BulkPayment) Remaining() float64 {
	if rest := RoundMoney(p.TotalAmount - p.PaidAmount); rest > 0 {
		return rest
	}
	return 0
}

// IsOverpaid returns true when more than the total has been paid
func (p BulkPayment) IsOverpaid() bool {
	return p.PaidAmount > p.TotalAmount
}

// RecurringGroup a recurring booking with all its generated instances
type RecurringGroup struct {
	ID              int64
	Code            string
	Customer        CustomerSnapshot
	Pattern         Pattern
	Status          GroupStatus
	PaymentMode     PaymentMode
	PricePerSession float64
	Counts          GroupCounts
	SkippedDates    []SkippedDate
	BulkPayment     *BulkPayment // nil for per_session groups
	Notes           *string
	CreatedBy       int64

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCancelled returns true if the group was cancelled
func (g *RecurringGroup) IsCancelled() bool {
	return g.Status == GroupCancelled
}

// IsBulk returns true if the group is paid as a single balance
func (g *RecurringGroup) IsBulk() bool {
	return g.PaymentMode == PaymentBulk
}

// GroupFilter filter for the operator group list
type GroupFilter struct {
	Status   *GroupStatus
	Search   string // code, customer name, nickname or phone
	Page     int    // 1-based
	PageSize int
}

// Offset returns the SQL offset of the page
func (f GroupFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
