package domain

// Routing keys of published domain events
const (
	EventGroupCreated    = "recurring_group.created"
	EventGroupCancelled  = "recurring_group.cancelled"
	EventPaymentRecorded = "recurring_group.payment_recorded"
)

// GroupCreatedEvent payload of EventGroupCreated
type GroupCreatedEvent struct {
	GroupID       int64   `json:"group_id"`
	GroupCode     string  `json:"group_code"`
	CourtID       int64   `json:"court_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	PaymentMode   string  `json:"payment_mode"`
	TotalBookings int     `json:"total_bookings"`
	SkippedDates  int     `json:"skipped_dates"`
	TotalAmount   float64 `json:"total_amount"`
}

// GroupCancelledEvent payload of EventGroupCancelled
type GroupCancelledEvent struct {
	GroupID           int64  `json:"group_id"`
	GroupCode         string `json:"group_code"`
	CancelledBookings int64  `json:"cancelled_bookings"`
}

// PaymentRecordedEvent payload of EventPaymentRecorded
type PaymentRecordedEvent struct {
	GroupID       int64   `json:"group_id"`
	PaymentID     string  `json:"payment_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	PaidAmount    float64 `json:"paid_amount"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentStatus string  `json:"payment_status"`
}
