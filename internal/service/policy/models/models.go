package models

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Уровень, с которого взята политика
const (
	SourceCourt   = "court"
	SourceVenue   = "venue"
	SourceDefault = "default"
)

// Request модели

// UpsertPolicyRequest запрос на создание или замену политики
// CourtID == nil задает политику для всей площадки
type UpsertPolicyRequest struct {
	UserID              int64  `json:"-"`
	CourtID             *int64 `json:"courtId,omitempty"`
	MaxSpanMonths       int    `json:"maxSpanMonths"`
	DurationStepMinutes int    `json:"durationStepMinutes"`
	MaxDurationSteps    int    `json:"maxDurationSteps"`
	AdvanceBookingDays  int    `json:"advanceBookingDays"` // 0 = без ограничений
}

// Response модели

// PolicyResponse действующая политика бронирования
type PolicyResponse struct {
	ID                  *int64     `json:"id,omitempty"`
	CourtID             *int64     `json:"courtId,omitempty"`
	Source              string     `json:"source"`
	MaxSpanMonths       int        `json:"maxSpanMonths"`
	DurationStepMinutes int        `json:"durationStepMinutes"`
	MaxDurationSteps    int        `json:"maxDurationSteps"`
	MaxDurationMinutes  int        `json:"maxDurationMinutes"`
	AdvanceBookingDays  int        `json:"advanceBookingDays"`
	CreatedAt           *time.Time `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingPolicy, source string) *PolicyResponse {
	if p == nil {
		return nil
	}

	resp := &PolicyResponse{
		CourtID:             p.CourtID,
		Source:              source,
		MaxSpanMonths:       p.MaxSpanMonths,
		DurationStepMinutes: p.DurationStepMinutes,
		MaxDurationSteps:    p.MaxDurationSteps,
		MaxDurationMinutes:  p.MaxDurationMinutes(),
		AdvanceBookingDays:  p.AdvanceBookingDays,
	}

	// У встроенной политики нет записи в БД
	if p.ID != 0 {
		id, createdAt, updatedAt := p.ID, p.CreatedAt, p.UpdatedAt
		resp.ID = &id
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// ToDomainPolicy конвертирует UpsertPolicyRequest в domain модель
func (r *UpsertPolicyRequest) ToDomainPolicy() *domain.BookingPolicy {
	return &domain.BookingPolicy{
		CourtID:             r.CourtID,
		MaxSpanMonths:       r.MaxSpanMonths,
		DurationStepMinutes: r.DurationStepMinutes,
		MaxDurationSteps:    r.MaxDurationSteps,
		AdvanceBookingDays:  r.AdvanceBookingDays,
	}
}
