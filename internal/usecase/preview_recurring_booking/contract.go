package preview_recurring_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/availability"
)

// VenueServiceClient интерфейс клиента каталога площадки
type VenueServiceClient interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
	GetTimeSlot(ctx context.Context, slotID int64) (*domain.TimeSlot, error)
}

// PolicyResolver возвращает действующую политику бронирования корта
type PolicyResolver interface {
	Resolve(ctx context.Context, courtID int64) (domain.BookingPolicy, error)
}

// AvailabilityChecker проверка доступности дат
type AvailabilityChecker interface {
	Check(ctx context.Context, req availability.CheckRequest) ([]domain.DateAvailability, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
