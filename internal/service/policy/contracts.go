package policy

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByCourt(ctx context.Context, courtID *int64) (*domain.BookingPolicy, error)
	GetWithHierarchy(ctx context.Context, courtID int64) (*domain.BookingPolicy, error)
	Upsert(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error)
}

// VenueServiceClient интерфейс клиента каталога площадки
type VenueServiceClient interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
