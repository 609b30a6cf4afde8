package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
)

// ErrExecQuery возвращается при ошибке получения значения последовательности
var ErrExecQuery = errors.New("sequence.repository: failed to execute query")

const (
	groupSequence   = "recurring_group_code_seq"
	bookingSequence = "booking_code_seq"

	groupPrefix   = "RB"
	bookingPrefix = "BK"
)

// Repository выдает человекочитаемые коды из последовательностей PostgreSQL,
// поэтому коды уникальны при любом количестве экземпляров сервиса
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория последовательностей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextGroupCode возвращает код группы вида RB-20240101-00012
func (r *Repository) NextGroupCode(ctx context.Context, day time.Time) (string, error) {
	return r.next(ctx, groupSequence, groupPrefix, day)
}

// NextBookingCode возвращает код бронирования вида BK-20240101-00012
func (r *Repository) NextBookingCode(ctx context.Context, day time.Time) (string, error) {
	return r.next(ctx, bookingSequence, bookingPrefix, day)
}

func (r *Repository) next(ctx context.Context, sequence, prefix string, day time.Time) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var value int64
	if err := executor.QueryRowContext(ctx, "SELECT nextval($1::regclass)", sequence).Scan(&value); err != nil {
		return "", fmt.Errorf("%w: next - %s: %w", ErrExecQuery, sequence, err)
	}

	return FormatCode(prefix, day, value), nil
}

// FormatCode собирает код из префикса, даты и номера
func FormatCode(prefix string, day time.Time, value int64) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, day.Format("20060102"), value)
}
