package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByCourtInRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.Booking, error)
}

// CalendarRepository интерфейс календаря площадки
type CalendarRepository interface {
	GetBlockedDates(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.BlockedDate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
