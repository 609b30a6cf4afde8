package availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// CheckRequest набор дат-кандидатов для одного корта и интервала времени
type CheckRequest struct {
	CourtID         int64
	StartTime       types.TimeString
	DurationMinutes int
	Dates           []domain.ExpandedDate // по возрастанию
}

// Checker классифицирует даты на доступные, заблокированные и занятые
// Вне транзакции результат носит рекомендательный характер,
// внутри транзакции бронирования читаются с FOR UPDATE
type Checker struct {
	bookingRepo  BookingRepository
	calendarRepo CalendarRepository
	logger       Logger
}

// NewChecker создает новый экземпляр проверки доступности
func NewChecker(bookingRepo BookingRepository, calendarRepo CalendarRepository, logger Logger) *Checker {
	return &Checker{
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// Check проверяет все даты двумя запросами: блокировки календаря и активные бронирования корта
// Блокировка имеет приоритет над конфликтом
func (c *Checker) Check(ctx context.Context, req CheckRequest) ([]domain.DateAvailability, error) {
	result := make([]domain.DateAvailability, 0, len(req.Dates))
	if len(req.Dates) == 0 {
		return result, nil
	}

	start := req.StartTime
	end, err := start.AddMinutes(req.DurationMinutes)
	if err != nil || req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: time range %s + %d min", ErrInvalidInput, start, req.DurationMinutes)
	}

	from := req.Dates[0].Date
	to := req.Dates[len(req.Dates)-1].Date

	blocked, err := c.calendarRepo.GetBlockedDates(ctx, req.CourtID, from, to)
	if err != nil {
		c.logger.Error("Check: failed to get blocked dates for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get blocked dates: %w", ErrInternal, err)
	}

	bookings, err := c.bookingRepo.GetActiveByCourtInRange(ctx, req.CourtID, from, to)
	if err != nil {
		c.logger.Error("Check: failed to get bookings for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	blockedDays := make(map[string]struct{}, len(blocked))
	for _, b := range blocked {
		if b.AppliesTo(req.CourtID) {
			blockedDays[b.Date.Format(domain.DateFormat)] = struct{}{}
		}
	}

	busyDays := make(map[string]struct{})
	for _, b := range bookings {
		if b.CourtID == req.CourtID && b.IsActive() && b.Overlaps(start, end) {
			busyDays[b.BookingDate.Format(domain.DateFormat)] = struct{}{}
		}
	}

	for _, d := range req.Dates {
		key := d.Date.Format(domain.DateFormat)
		item := domain.DateAvailability{Date: d.Date, Weekday: d.Weekday, Bookable: true}

		if _, ok := blockedDays[key]; ok {
			item.Bookable = false
			item.Reason = domain.SkipBlocked
		} else if _, ok := busyDays[key]; ok {
			item.Bookable = false
			item.Reason = domain.SkipConflict
		}

		result = append(result, item)
	}

	return result, nil
}
