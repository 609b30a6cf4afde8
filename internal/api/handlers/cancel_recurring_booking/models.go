package cancel_recurring_booking

import (
	cancelRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/cancel_recurring_booking"
)

// CancelResponse HTTP response model
type CancelResponse struct {
	GroupID           int64  `json:"groupId"`
	GroupCode         string `json:"groupCode"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	AlreadyCancelled  bool   `json:"alreadyCancelled"`
	CancelledBookings int64  `json:"cancelledBookings"`
	TotalBookings     int    `json:"totalBookings"`
	CompletedBookings int    `json:"completedBookings"`
	CancelledTotal    int    `json:"cancelledTotal"`
	ActiveBookings    int    `json:"activeBookings"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelRecurring.Response) *CancelResponse {
	return &CancelResponse{
		GroupID:           resp.GroupID,
		GroupCode:         resp.GroupCode,
		Status:            "cancelled",
		Message:           resp.Message,
		AlreadyCancelled:  resp.AlreadyCancelled,
		CancelledBookings: resp.CancelledBookings,
		TotalBookings:     resp.TotalBookings,
		CompletedBookings: resp.CompletedBookings,
		CancelledTotal:    resp.CancelledTotal,
		ActiveBookings:    resp.ActiveBookings,
	}
}
