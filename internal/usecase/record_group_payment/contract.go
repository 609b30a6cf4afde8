package record_group_payment

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// GroupRepository интерфейс репозитория регулярных групп
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RecurringGroup, error)
	IncrementBulkPaid(ctx context.Context, id int64, amount float64) (*domain.BulkPayment, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	SetPaymentStatusByGroup(ctx context.Context, groupID int64, status domain.PaymentStatus) (int64, error)
}

// PaymentRepository журнал платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.GroupPayment) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// MetricsRecorder доменные метрики
type MetricsRecorder interface {
	PaymentRecorded(method string, amount float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
