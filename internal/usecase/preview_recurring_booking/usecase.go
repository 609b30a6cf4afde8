package preview_recurring_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/venueservice"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/availability"
)

var tracer = otel.Tracer("usecase/preview_recurring_booking")

// UseCase use case для предпросмотра регулярного бронирования
type UseCase struct {
	venueClient    VenueServiceClient
	policyResolver PolicyResolver
	checker        AvailabilityChecker
	location       *time.Location
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// location часовой пояс площадки, в нем вычисляется "сегодня"
func NewUseCase(
	venueClient VenueServiceClient,
	policyResolver PolicyResolver,
	checker AvailabilityChecker,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		venueClient:    venueClient,
		policyResolver: policyResolver,
		checker:        checker,
		location:       location,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute разворачивает шаблон, проверяет доступность и считает цены
// Ничего не пишет в БД, повторный вызов с теми же данными дает тот же результат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "PreviewRecurringBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.Int64("court.id", req.CourtID),
		attribute.Int64("time_slot.id", req.TimeSlotID),
	)

	uc.logger.Info("PreviewRecurringBooking: court=%d, slot=%d, weekdays=%v, range=%s..%s",
		req.CourtID, req.TimeSlotID, req.Weekdays,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PreviewRecurringBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Корт и слот из каталога площадки
	court, err := uc.venueClient.GetCourt(ctx, req.CourtID)
	if err != nil {
		return nil, uc.venueError("court", req.CourtID, err, ErrCourtNotFound)
	}
	if !court.IsActive {
		uc.logger.Warn("PreviewRecurringBooking: court id=%d is not active", req.CourtID)
		return nil, fmt.Errorf("%w: court %d is not active", ErrCourtNotFound, req.CourtID)
	}

	slot, err := uc.venueClient.GetTimeSlot(ctx, req.TimeSlotID)
	if err != nil {
		return nil, uc.venueError("time slot", req.TimeSlotID, err, ErrTimeSlotNotFound)
	}
	if !slot.IsActive {
		uc.logger.Warn("PreviewRecurringBooking: time slot id=%d is not active", req.TimeSlotID)
		return nil, fmt.Errorf("%w: time slot %d is not active", ErrTimeSlotNotFound, req.TimeSlotID)
	}

	// 3. Политика и проверка шаблона
	policy, err := uc.policyResolver.Resolve(ctx, req.CourtID)
	if err != nil {
		uc.logger.Error("PreviewRecurringBooking: failed to resolve policy for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	pattern := domain.Pattern{
		CourtID:       req.CourtID,
		TimeSlotID:    req.TimeSlotID,
		DurationHours: req.DurationHours,
		Weekdays:      req.Weekdays,
		StartDate:     domain.DateOf(req.StartDate),
		EndDate:       domain.DateOf(req.EndDate),
	}

	if err := pattern.Validate(policy); err != nil {
		uc.logger.Warn("PreviewRecurringBooking: invalid pattern: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	today := domain.Today(uc.timeProvider.Now(), uc.location)
	if err := validateDates(pattern, today, policy); err != nil {
		uc.logger.Warn("PreviewRecurringBooking: date validation failed: %v", err)
		return nil, err
	}

	endTime, err := slot.StartTime.AddMinutes(pattern.DurationMinutes())
	if err != nil {
		uc.logger.Warn("PreviewRecurringBooking: %s + %.1fh does not fit in a day", slot.StartTime, req.DurationHours)
		return nil, fmt.Errorf("%w: booking must end before midnight", ErrInvalidInput)
	}

	// 4. Разворачиваем и проверяем даты без блокировок
	dates := pattern.Expand()
	checks, err := uc.checker.Check(ctx, availability.CheckRequest{
		CourtID:         req.CourtID,
		StartTime:       slot.StartTime,
		DurationMinutes: pattern.DurationMinutes(),
		Dates:           dates,
	})
	if err != nil {
		uc.logger.Error("PreviewRecurringBooking: availability check failed: %v", err)
		return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}

	// 5. Цены для доступных дат
	plan := domain.AssemblePlan(checks, *slot, req.DurationHours, req.IsMember)
	span.SetAttributes(
		attribute.Int("dates.valid", len(plan.Dates)),
		attribute.Int("dates.skipped", len(plan.Skipped)),
	)

	uc.logger.Info("PreviewRecurringBooking: %d valid dates, %d skipped, total=%.2f",
		len(plan.Dates), len(plan.Skipped), plan.TotalAmount)

	return &Response{
		Summary:         buildSummary(pattern, slot.StartTime.String(), endTime.String(), plan),
		CourtID:         court.ID,
		CourtName:       court.Name,
		TimeSlotID:      slot.ID,
		StartTime:       slot.StartTime,
		EndTime:         endTime,
		DurationHours:   req.DurationHours,
		IsPeak:          slot.IsPeak,
		Dates:           plan.Dates,
		SkippedDates:    plan.Skipped,
		PricePerSession: plan.PricePerSession,
		MixedRates:      plan.MixedRates,
		TotalAmount:     plan.TotalAmount,
	}, nil
}

// venueError переводит ошибку каталога площадки в ошибку usecase
func (uc *UseCase) venueError(what string, id int64, err error, notFound error) error {
	switch {
	case venueservice.IsNotFound(err):
		uc.logger.Warn("PreviewRecurringBooking: %s id=%d not found", what, id)
		return notFound
	case errors.Is(err, venueservice.ErrUnavailable):
		uc.logger.Error("PreviewRecurringBooking: venue service unavailable for %s id=%d: %v", what, id, err)
		return fmt.Errorf("%w: venue service: %v", ErrTransient, err)
	default:
		uc.logger.Error("PreviewRecurringBooking: failed to get %s id=%d: %v", what, id, err)
		return fmt.Errorf("%w: failed to get %s: %v", ErrInternal, what, err)
	}
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// buildSummary собирает описание вида
// "Mon, Wed 18:00-19:00 from 2024-01-01 to 2024-01-10: 3 of 4 dates available (1 blocked), total 450.00"
func buildSummary(pattern domain.Pattern, start, end string, plan domain.BookingPlan) string {
	days := make([]string, 0, len(pattern.Weekdays))
	for wd := 0; wd < 7; wd++ {
		if pattern.HasWeekday(wd) {
			days = append(days, weekdayNames[wd])
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s-%s from %s to %s: %d of %d dates available",
		strings.Join(days, ", "), start, end,
		pattern.StartDate.Format(domain.DateFormat), pattern.EndDate.Format(domain.DateFormat),
		len(plan.Dates), len(plan.Dates)+len(plan.Skipped))

	var skipped []string
	if n := plan.SkippedCount(domain.SkipBlocked); n > 0 {
		skipped = append(skipped, fmt.Sprintf("%d blocked", n))
	}
	if n := plan.SkippedCount(domain.SkipConflict); n > 0 {
		skipped = append(skipped, fmt.Sprintf("%d already booked", n))
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(skipped, ", "))
	}

	fmt.Fprintf(&b, ", total %.2f", plan.TotalAmount)
	return b.String()
}
