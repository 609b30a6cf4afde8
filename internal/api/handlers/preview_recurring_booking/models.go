package preview_recurring_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	previewRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/preview_recurring_booking"
)

// PreviewRequest HTTP request model
type PreviewRequest struct {
	CourtID       int64   `json:"courtId"`
	TimeSlotID    int64   `json:"timeSlotId"`
	DurationHours float64 `json:"durationHours"`
	Weekdays      []int   `json:"weekdays"`  // 0 = воскресенье
	StartDate     string  `json:"startDate"` // "2024-01-01"
	EndDate       string  `json:"endDate"`   // "2024-01-31"
	IsMember      bool    `json:"isMember"`
}

// PlannedDateResponse доступная дата с ценой
type PlannedDateResponse struct {
	Date    string  `json:"date"`
	Weekday int     `json:"weekday"`
	Price   float64 `json:"price"`
}

// SkippedDateResponse пропущенная дата с причиной
type SkippedDateResponse struct {
	Date    string `json:"date"`
	Weekday int    `json:"weekday"`
	Reason  string `json:"reason"`
}

// PreviewResponse HTTP response model
type PreviewResponse struct {
	Summary         string                `json:"summary"`
	CourtID         int64                 `json:"courtId"`
	CourtName       string                `json:"courtName"`
	TimeSlotID      int64                 `json:"timeSlotId"`
	StartTime       string                `json:"startTime"`
	EndTime         string                `json:"endTime"`
	DurationHours   float64               `json:"durationHours"`
	IsPeak          bool                  `json:"isPeak"`
	Dates           []PlannedDateResponse `json:"dates"`
	SkippedDates    []SkippedDateResponse `json:"skippedDates"`
	TotalSessions   int                   `json:"totalSessions"`
	PricePerSession float64               `json:"pricePerSession"`
	MixedRates      bool                  `json:"mixedRates"`
	TotalAmount     float64               `json:"totalAmount"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PreviewRequest) ToUseCaseRequest() (*previewRecurring.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	return &previewRecurring.Request{
		CourtID:       r.CourtID,
		TimeSlotID:    r.TimeSlotID,
		DurationHours: r.DurationHours,
		Weekdays:      r.Weekdays,
		StartDate:     startDate,
		EndDate:       endDate,
		IsMember:      r.IsMember,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *previewRecurring.Response) *PreviewResponse {
	dates := make([]PlannedDateResponse, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, PlannedDateResponse{
			Date:    d.Date.Format(domain.DateFormat),
			Weekday: d.Weekday,
			Price:   d.Price,
		})
	}

	skipped := make([]SkippedDateResponse, 0, len(resp.SkippedDates))
	for _, s := range resp.SkippedDates {
		skipped = append(skipped, SkippedDateResponse{
			Date:    s.Date.Format(domain.DateFormat),
			Weekday: s.Weekday,
			Reason:  string(s.Reason),
		})
	}

	return &PreviewResponse{
		Summary:         resp.Summary,
		CourtID:         resp.CourtID,
		CourtName:       resp.CourtName,
		TimeSlotID:      resp.TimeSlotID,
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationHours:   resp.DurationHours,
		IsPeak:          resp.IsPeak,
		Dates:           dates,
		SkippedDates:    skipped,
		TotalSessions:   len(dates),
		PricePerSession: resp.PricePerSession,
		MixedRates:      resp.MixedRates,
		TotalAmount:     resp.TotalAmount,
	}
}
