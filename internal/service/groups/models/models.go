package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Request модели

// ListGroupsRequest фильтр списка групп
type ListGroupsRequest struct {
	Status   *string
	Search   string
	Page     int
	PageSize int
}

// ToDomainFilter конвертирует запрос в domain фильтр, подставляя значения по умолчанию
func (r *ListGroupsRequest) ToDomainFilter() (domain.GroupFilter, error) {
	filter := domain.GroupFilter{
		Search:   strings.TrimSpace(r.Search),
		Page:     r.Page,
		PageSize: r.PageSize,
	}

	if r.Status != nil {
		status := domain.GroupStatus(*r.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("unknown status %q", *r.Status)
		}
		filter.Status = &status
	}

	if utf8.RuneCountInString(filter.Search) > domain.MaxSearchLength {
		return filter, fmt.Errorf("search must be at most %d characters", domain.MaxSearchLength)
	}

	if filter.Page < 0 || filter.PageSize < 0 {
		return filter, fmt.Errorf("page and pageSize must not be negative")
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = domain.DefaultPageSize
	}
	if filter.PageSize > domain.MaxPageSize {
		filter.PageSize = domain.MaxPageSize
	}

	return filter, nil
}

// Response модели

// CustomerResponse снимок данных клиента
type CustomerResponse struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	IsMember bool   `json:"isMember"`
}

// SkippedDateResponse пропущенная дата шаблона
type SkippedDateResponse struct {
	Date    string `json:"date"`
	Weekday int    `json:"weekday"`
	Reason  string `json:"reason"`
}

// BulkPaymentResponse баланс группы с оплатой одним платежом
type BulkPaymentResponse struct {
	TotalAmount     float64 `json:"totalAmount"`
	PaidAmount      float64 `json:"paidAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	PaymentStatus   string  `json:"paymentStatus"`
}

// PaymentResponse запись журнала платежей
type PaymentResponse struct {
	ID             string    `json:"id"`
	Amount         float64   `json:"amount"`
	Method         string    `json:"method"`
	IdempotencyKey *string   `json:"idempotencyKey,omitempty"`
	RecordedBy     int64     `json:"recordedBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

// GroupSummary строка списка групп
type GroupSummary struct {
	ID                int64                `json:"id"`
	Code              string               `json:"code"`
	Customer          CustomerResponse     `json:"customer"`
	CourtID           int64                `json:"courtId"`
	TimeSlotID        int64                `json:"timeSlotId"`
	DurationHours     float64              `json:"durationHours"`
	Weekdays          []int                `json:"weekdays"`
	StartDate         string               `json:"startDate"`
	EndDate           string               `json:"endDate"`
	Status            string               `json:"status"`
	PaymentMode       string               `json:"paymentMode"`
	PricePerSession   float64              `json:"pricePerSession"`
	TotalBookings     int                  `json:"totalBookings"`
	CompletedBookings int                  `json:"completedBookings"`
	CancelledBookings int                  `json:"cancelledBookings"`
	ActiveBookings    int                  `json:"activeBookings"`
	BulkPayment       *BulkPaymentResponse `json:"bulkPayment,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// GroupResponse полная карточка группы
type GroupResponse struct {
	GroupSummary
	SkippedDates []SkippedDateResponse `json:"skippedDates"`
	Payments     []PaymentResponse     `json:"payments,omitempty"`
	Notes        *string               `json:"notes,omitempty"`
	CreatedBy    int64                 `json:"createdBy"`
	CancelledAt  *string               `json:"cancelledAt,omitempty"` // ISO 8601 format
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// GroupListResponse страница списка групп
type GroupListResponse struct {
	Groups   []GroupSummary `json:"groups"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// BookingSummary бронирование группы
type BookingSummary struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	BookingDate   string  `json:"bookingDate"`
	Weekday       int     `json:"weekday"`
	StartTime     string  `json:"startTime"`
	Price         float64 `json:"price"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
}

// GroupBookingsResponse бронирования группы по возрастанию даты
type GroupBookingsResponse struct {
	GroupID   int64            `json:"groupId"`
	GroupCode string           `json:"groupCode"`
	Bookings  []BookingSummary `json:"bookings"`
}

// Методы конвертации

// FromDomainGroupSummary конвертирует domain модель в строку списка
func FromDomainGroupSummary(g *domain.RecurringGroup) GroupSummary {
	weekdays := g.Pattern.Weekdays
	if weekdays == nil {
		weekdays = []int{}
	}

	return GroupSummary{
		ID:   g.ID,
		Code: g.Code,
		Customer: CustomerResponse{
			Name:     g.Customer.Name,
			Nickname: g.Customer.Nickname,
			Phone:    g.Customer.Phone,
			Email:    g.Customer.Email,
			IsMember: g.Customer.IsMember,
		},
		CourtID:           g.Pattern.CourtID,
		TimeSlotID:        g.Pattern.TimeSlotID,
		DurationHours:     g.Pattern.DurationHours,
		Weekdays:          weekdays,
		StartDate:         g.Pattern.StartDate.Format(domain.DateFormat),
		EndDate:           g.Pattern.EndDate.Format(domain.DateFormat),
		Status:            string(g.Status),
		PaymentMode:       string(g.PaymentMode),
		PricePerSession:   g.PricePerSession,
		TotalBookings:     g.Counts.Total,
		CompletedBookings: g.Counts.Completed,
		CancelledBookings: g.Counts.Cancelled,
		ActiveBookings:    g.Counts.Active(),
		BulkPayment:       FromDomainBulkPayment(g.BulkPayment),
		CreatedAt:         g.CreatedAt,
	}
}

// FromDomainGroup конвертирует domain модель в карточку группы
func FromDomainGroup(g *domain.RecurringGroup, payments []*domain.GroupPayment) *GroupResponse {
	if g == nil {
		return nil
	}

	resp := &GroupResponse{
		GroupSummary: FromDomainGroupSummary(g),
		SkippedDates: FromDomainSkippedDates(g.SkippedDates),
		Notes:        g.Notes,
		CreatedBy:    g.CreatedBy,
		UpdatedAt:    g.UpdatedAt,
	}

	for _, p := range payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:             p.ID,
			Amount:         p.Amount,
			Method:         string(p.Method),
			IdempotencyKey: p.IdempotencyKey,
			RecordedBy:     p.RecordedBy,
			CreatedAt:      p.CreatedAt,
		})
	}

	if g.CancelledAt != nil {
		cancelledStr := g.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainSkippedDates конвертирует пропущенные даты
func FromDomainSkippedDates(skipped []domain.SkippedDate) []SkippedDateResponse {
	resp := make([]SkippedDateResponse, len(skipped))
	for i, s := range skipped {
		resp[i] = SkippedDateResponse{
			Date:    s.Date.Format(domain.DateFormat),
			Weekday: s.Weekday,
			Reason:  string(s.Reason),
		}
	}
	return resp
}

// FromDomainBulkPayment конвертирует баланс, nil для посессионной оплаты
func FromDomainBulkPayment(p *domain.BulkPayment) *BulkPaymentResponse {
	if p == nil {
		return nil
	}
	return &BulkPaymentResponse{
		TotalAmount:     p.TotalAmount,
		PaidAmount:      p.PaidAmount,
		RemainingAmount: p.Remaining(),
		PaymentStatus:   string(p.Status()),
	}
}

// FromDomainGroupBookings конвертирует бронирования группы
func FromDomainGroupBookings(g *domain.RecurringGroup, bookings []*domain.Booking) *GroupBookingsResponse {
	resp := &GroupBookingsResponse{
		GroupID:   g.ID,
		GroupCode: g.Code,
		Bookings:  make([]BookingSummary, len(bookings)),
	}

	for i, b := range bookings {
		resp.Bookings[i] = BookingSummary{
			ID:            b.ID,
			Code:          b.Code,
			BookingDate:   b.BookingDate.Format(domain.DateFormat),
			Weekday:       int(b.BookingDate.Weekday()),
			StartTime:     b.StartTime.String(),
			Price:         b.Price,
			Status:        string(b.Status),
			PaymentStatus: string(b.PaymentStatus),
		}
	}

	return resp
}
