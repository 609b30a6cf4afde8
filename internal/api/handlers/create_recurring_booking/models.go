package create_recurring_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	createRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_recurring_booking"
)

// CustomerRequest данные клиента
type CustomerRequest struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	IsMember bool   `json:"isMember"`
}

// CreateRequest HTTP request model
type CreateRequest struct {
	CourtID       int64           `json:"courtId"`
	TimeSlotID    int64           `json:"timeSlotId"`
	DurationHours float64         `json:"durationHours"`
	Weekdays      []int           `json:"weekdays"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	Customer      CustomerRequest `json:"customer"`
	PaymentMode   string          `json:"paymentMode"` // per_session | bulk
	Notes         *string         `json:"notes,omitempty"`
}

// SkippedDateResponse пропущенная дата с причиной
type SkippedDateResponse struct {
	Date    string `json:"date"`
	Weekday int    `json:"weekday"`
	Reason  string `json:"reason"`
}

// CreateResponse HTTP response model
type CreateResponse struct {
	GroupID         int64                 `json:"groupId"`
	GroupCode       string                `json:"groupCode"`
	Message         string                `json:"message"`
	PaymentMode     string                `json:"paymentMode"`
	TotalBookings   int                   `json:"totalBookings"`
	SkippedDates    []SkippedDateResponse `json:"skippedDates"`
	PricePerSession float64               `json:"pricePerSession"`
	TotalAmount     float64               `json:"totalAmount"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRequest) ToUseCaseRequest(userID int64) (*createRecurring.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	paymentMode := r.PaymentMode
	if paymentMode == "" {
		paymentMode = string(domain.PaymentPerSession)
	}

	return &createRecurring.Request{
		UserID:        userID,
		CourtID:       r.CourtID,
		TimeSlotID:    r.TimeSlotID,
		DurationHours: r.DurationHours,
		Weekdays:      r.Weekdays,
		StartDate:     startDate,
		EndDate:       endDate,
		Customer: domain.CustomerSnapshot{
			Name:     r.Customer.Name,
			Nickname: r.Customer.Nickname,
			Phone:    r.Customer.Phone,
			Email:    r.Customer.Email,
			IsMember: r.Customer.IsMember,
		},
		PaymentMode: paymentMode,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRecurring.Response) *CreateResponse {
	skipped := make([]SkippedDateResponse, 0, len(resp.SkippedDates))
	for _, s := range resp.SkippedDates {
		skipped = append(skipped, SkippedDateResponse{
			Date:    s.Date.Format(domain.DateFormat),
			Weekday: s.Weekday,
			Reason:  string(s.Reason),
		})
	}

	return &CreateResponse{
		GroupID:         resp.GroupID,
		GroupCode:       resp.GroupCode,
		Message:         resp.Message,
		PaymentMode:     resp.PaymentMode,
		TotalBookings:   resp.TotalBookings,
		SkippedDates:    skipped,
		PricePerSession: resp.PricePerSession,
		TotalAmount:     resp.TotalAmount,
	}
}
