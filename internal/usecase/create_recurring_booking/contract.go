package create_recurring_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/availability"
)

// GroupRepository интерфейс репозитория регулярных групп
type GroupRepository interface {
	Create(ctx context.Context, group *domain.RecurringGroup) (*domain.RecurringGroup, error)
	AddSkippedDates(ctx context.Context, groupID int64, skipped []domain.SkippedDate) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	LockCourtDate(ctx context.Context, courtID int64, date time.Time) error
}

// SequenceRepository генератор кодов групп и бронирований
type SequenceRepository interface {
	NextGroupCode(ctx context.Context, day time.Time) (string, error)
	NextBookingCode(ctx context.Context, day time.Time) (string, error)
}

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

// SlotLocker распределенная блокировка дат корта между экземплярами сервиса
type SlotLocker interface {
	LockSlots(ctx context.Context, courtID int64, dates []time.Time) (release func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// MetricsRecorder доменные метрики
type MetricsRecorder interface {
	GroupCreated(paymentMode string)
	DateSkipped(reason string, count int)
	NoValidDates()
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
