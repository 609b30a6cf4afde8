package venueservice

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Court модель корта из каталога площадки
type Court struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Rates тарифы в час по типу дня
type Rates struct {
	Weekday float64 `json:"weekday"`
	Weekend float64 `json:"weekend"`
}

// RateTable обычный и членский тариф
type RateTable struct {
	Normal Rates `json:"normal"`
	Member Rates `json:"member"`
}

// TimeSlot модель временного слота из каталога площадки
type TimeSlot struct {
	ID          int64     `json:"id"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsPeak      bool      `json:"is_peak"`
	IsActive    bool      `json:"is_active"`
	Pricing     RateTable `json:"pricing"`
	PeakPricing RateTable `json:"peak_pricing"`
}

// ErrorResponse модель ошибки от VenueService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain преобразует корт в доменную модель
func (c *Court) ToDomain() *domain.Court {
	return &domain.Court{
		ID:       c.ID,
		Name:     c.Name,
		IsActive: c.IsActive,
	}
}

// ToDomain преобразует слот в доменную модель
func (s *TimeSlot) ToDomain() (*domain.TimeSlot, error) {
	start, err := types.NewTimeStringFromString(s.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: time slot %d start_time %q", ErrInvalidResponse, s.ID, s.StartTime)
	}
	end, err := types.NewTimeStringFromString(s.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: time slot %d end_time %q", ErrInvalidResponse, s.ID, s.EndTime)
	}

	return &domain.TimeSlot{
		ID:          s.ID,
		StartTime:   start,
		EndTime:     end,
		IsPeak:      s.IsPeak,
		IsActive:    s.IsActive,
		Pricing:     s.Pricing.toDomain(),
		PeakPricing: s.PeakPricing.toDomain(),
	}, nil
}

func (t RateTable) toDomain() domain.SlotPricing {
	return domain.SlotPricing{
		Normal: domain.DayRates{Weekday: t.Normal.Weekday, Weekend: t.Normal.Weekend},
		Member: domain.DayRates{Weekday: t.Member.Weekday, Weekend: t.Member.Weekend},
	}
}
