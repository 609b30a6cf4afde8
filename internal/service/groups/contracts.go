package groups

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// GroupRepository интерфейс репозитория регулярных групп
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RecurringGroup, error)
	List(ctx context.Context, filter domain.GroupFilter) ([]*domain.RecurringGroup, int, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByGroupID(ctx context.Context, groupID int64) ([]*domain.Booking, error)
}

// PaymentRepository интерфейс журнала платежей
type PaymentRepository interface {
	ListByGroup(ctx context.Context, groupID int64) ([]*domain.GroupPayment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
