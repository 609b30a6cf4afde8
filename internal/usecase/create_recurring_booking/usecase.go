package create_recurring_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/venueservice"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/availability"
	"github.com/m04kA/SMC-CourtBookingService/pkg/mq"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

const (
	defaultCommitTimeout = 10 * time.Second
	publishTimeout       = 3 * time.Second
)

var tracer = otel.Tracer("usecase/create_recurring_booking")

// UseCase use case для создания регулярного бронирования
type UseCase struct {
	groupRepo      GroupRepository
	bookingRepo    BookingRepository
	sequenceRepo   SequenceRepository
	venueClient    VenueServiceClient
	policyResolver PolicyResolver
	checker        AvailabilityChecker
	txManager      TransactionManager
	locker         SlotLocker
	publisher      EventPublisher
	metrics        MetricsRecorder
	location       *time.Location
	commitTimeout  time.Duration
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// Распределенная блокировка, публикация событий и метрики подключаются через With* методы
func NewUseCase(
	groupRepo GroupRepository,
	bookingRepo BookingRepository,
	sequenceRepo SequenceRepository,
	venueClient VenueServiceClient,
	policyResolver PolicyResolver,
	checker AvailabilityChecker,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		groupRepo:      groupRepo,
		bookingRepo:    bookingRepo,
		sequenceRepo:   sequenceRepo,
		venueClient:    venueClient,
		policyResolver: policyResolver,
		checker:        checker,
		txManager:      txManager,
		locker:         lock.NopLocker{},
		publisher:      mq.NopPublisher{},
		metrics:        nopMetrics{},
		location:       location,
		commitTimeout:  defaultCommitTimeout,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithLocker включает распределенную блокировку дат перед транзакцией
func (uc *UseCase) WithLocker(l SlotLocker) *UseCase {
	uc.locker = l
	return uc
}

// WithPublisher задает публикатор событий
func (uc *UseCase) WithPublisher(p EventPublisher) *UseCase {
	uc.publisher = p
	return uc
}

// WithMetrics задает получателя доменных метрик
func (uc *UseCase) WithMetrics(m MetricsRecorder) *UseCase {
	uc.metrics = m
	return uc
}

// WithCommitTimeout ограничивает время транзакции создания
func (uc *UseCase) WithCommitTimeout(d time.Duration) *UseCase {
	if d > 0 {
		uc.commitTimeout = d
	}
	return uc
}

// Execute выполняет use case создания регулярного бронирования
// Повторная проверка дат и запись группы со всеми бронированиями выполняются
// в одной сериализуемой транзакции под advisory lock на каждую пару (корт, дата)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CreateRecurringBooking")
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
		attribute.String("payment.mode", req.PaymentMode),
	)

	uc.logger.Info("CreateRecurringBooking: user=%d, court=%d, slot=%d, weekdays=%v, range=%s..%s, mode=%s",
		req.UserID, req.CourtID, req.TimeSlotID, req.Weekdays,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.PaymentMode)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRecurringBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущую дату в часовом поясе площадки
	today := domain.Today(uc.timeProvider.Now(), uc.location)

	// 3. Корт и слот из каталога площадки (вне транзакции)
	court, err := uc.venueClient.GetCourt(ctx, req.CourtID)
	if err != nil {
		return nil, uc.venueError("court", req.CourtID, err, ErrCourtNotFound)
	}
	if !court.IsActive {
		uc.logger.Warn("CreateRecurringBooking: court id=%d is not active", req.CourtID)
		return nil, fmt.Errorf("%w: court %d is not active", ErrCourtNotFound, req.CourtID)
	}

	slot, err := uc.venueClient.GetTimeSlot(ctx, req.TimeSlotID)
	if err != nil {
		return nil, uc.venueError("time slot", req.TimeSlotID, err, ErrTimeSlotNotFound)
	}
	if !slot.IsActive {
		uc.logger.Warn("CreateRecurringBooking: time slot id=%d is not active", req.TimeSlotID)
		return nil, fmt.Errorf("%w: time slot %d is not active", ErrTimeSlotNotFound, req.TimeSlotID)
	}

	// 4. Политика и проверка шаблона
	policy, err := uc.policyResolver.Resolve(ctx, req.CourtID)
	if err != nil {
		uc.logger.Error("CreateRecurringBooking: failed to resolve policy for court=%d: %v", req.CourtID, err)
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
		uc.logger.Warn("CreateRecurringBooking: invalid pattern: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateDates(pattern, today, policy); err != nil {
		uc.logger.Warn("CreateRecurringBooking: date validation failed: %v", err)
		return nil, err
	}

	if _, err := slot.StartTime.AddMinutes(pattern.DurationMinutes()); err != nil {
		uc.logger.Warn("CreateRecurringBooking: %s + %.1fh does not fit in a day", slot.StartTime, req.DurationHours)
		return nil, fmt.Errorf("%w: booking must end before midnight", ErrInvalidInput)
	}

	expanded := pattern.Expand()
	if len(expanded) == 0 {
		uc.logger.Warn("CreateRecurringBooking: pattern expands to zero dates")
		uc.metrics.NoValidDates()
		return nil, ErrNoValidDates
	}

	dates := make([]time.Time, len(expanded))
	for i, d := range expanded {
		dates[i] = d.Date
	}

	// 5. Распределенная блокировка дат корта, снимается после фиксации транзакции
	release, err := uc.locker.LockSlots(ctx, req.CourtID, dates)
	if err != nil {
		uc.logger.Warn("CreateRecurringBooking: failed to lock dates of court=%d: %v", req.CourtID, err)
		if errors.Is(err, lock.ErrLockTimeout) {
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil, fmt.Errorf("%w: failed to lock dates: %v", ErrTransient, err)
	}
	defer release()

	// 6. Повторная проверка и запись в одной транзакции с ограничением по времени
	commitCtx, cancel := context.WithTimeout(ctx, uc.commitTimeout)
	defer cancel()

	var (
		group *domain.RecurringGroup
		plan  domain.BookingPlan
	)
	err = uc.txManager.DoSerializable(commitCtx, func(txCtx context.Context) error {
		// 6.1. Advisory lock на каждую пару (корт, дата) в порядке возрастания дат
		for _, d := range dates {
			if err := uc.bookingRepo.LockCourtDate(txCtx, req.CourtID, d); err != nil {
				uc.logger.Error("CreateRecurringBooking: failed to lock court=%d date=%s: %v",
					req.CourtID, d.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to lock court date: %w", ErrInternal, err)
			}
		}

		// 6.2. Повторная проверка доступности, бронирования читаются с FOR UPDATE
		checks, err := uc.checker.Check(txCtx, availability.CheckRequest{
			CourtID:         req.CourtID,
			StartTime:       slot.StartTime,
			DurationMinutes: pattern.DurationMinutes(),
			Dates:           expanded,
		})
		if err != nil {
			uc.logger.Error("CreateRecurringBooking: availability re-check failed: %v", err)
			return fmt.Errorf("%w: availability re-check failed: %w", ErrInternal, err)
		}

		plan = domain.AssemblePlan(checks, *slot, req.DurationHours, req.Customer.IsMember)
		if len(plan.Dates) == 0 {
			uc.logger.Warn("CreateRecurringBooking: no valid dates after re-check (%d blocked, %d conflict)",
				plan.SkippedCount(domain.SkipBlocked), plan.SkippedCount(domain.SkipConflict))
			return ErrNoValidDates
		}

		// 6.3. Группа
		code, err := uc.sequenceRepo.NextGroupCode(txCtx, today)
		if err != nil {
			uc.logger.Error("CreateRecurringBooking: failed to allocate group code: %v", err)
			return fmt.Errorf("%w: failed to allocate group code: %w", ErrInternal, err)
		}

		newGroup := &domain.RecurringGroup{
			Code:            code,
			Customer:        req.Customer,
			Pattern:         pattern,
			Status:          domain.GroupActive,
			PaymentMode:     domain.PaymentMode(req.PaymentMode),
			PricePerSession: plan.PricePerSession,
			Notes:           req.Notes,
			CreatedBy:       req.UserID,
		}
		if newGroup.IsBulk() {
			newGroup.BulkPayment = &domain.BulkPayment{TotalAmount: plan.TotalAmount}
		}

		created, err := uc.groupRepo.Create(txCtx, newGroup)
		if err != nil {
			uc.logger.Error("CreateRecurringBooking: failed to create group: %v", err)
			return fmt.Errorf("%w: failed to create group: %w", ErrInternal, err)
		}

		// 6.4. Пропущенные даты с причинами повторной проверки
		if err := uc.groupRepo.AddSkippedDates(txCtx, created.ID, plan.Skipped); err != nil {
			uc.logger.Error("CreateRecurringBooking: failed to save skipped dates: %v", err)
			return fmt.Errorf("%w: failed to save skipped dates: %w", ErrInternal, err)
		}

		// 6.5. Бронирование на каждую доступную дату со своей ценой
		for _, d := range plan.Dates {
			bookingCode, err := uc.sequenceRepo.NextBookingCode(txCtx, d.Date)
			if err != nil {
				uc.logger.Error("CreateRecurringBooking: failed to allocate booking code: %v", err)
				return fmt.Errorf("%w: failed to allocate booking code: %w", ErrInternal, err)
			}

			_, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
				Code:            bookingCode,
				GroupID:         &created.ID,
				CourtID:         req.CourtID,
				TimeSlotID:      req.TimeSlotID,
				BookingDate:     d.Date,
				StartTime:       slot.StartTime,
				DurationMinutes: pattern.DurationMinutes(),
				Status:          domain.StatusConfirmed,
				PaymentStatus:   domain.PaymentPending,
				Price:           d.Price,
				CustomerName:    req.Customer.Name,
				CustomerPhone:   req.Customer.Phone,
			})
			if err != nil {
				uc.logger.Error("CreateRecurringBooking: failed to create booking for %s: %v",
					d.Date.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
			}
		}

		created.SkippedDates = plan.Skipped
		group = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNoValidDates) {
			uc.metrics.NoValidDates()
			return nil, ErrNoValidDates
		}
		if txmanager.IsTransient(err) {
			uc.logger.Warn("CreateRecurringBooking: transient failure, nothing was written: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil, err
	}

	uc.metrics.GroupCreated(string(group.PaymentMode))
	uc.metrics.DateSkipped(string(domain.SkipBlocked), plan.SkippedCount(domain.SkipBlocked))
	uc.metrics.DateSkipped(string(domain.SkipConflict), plan.SkippedCount(domain.SkipConflict))
	span.SetAttributes(
		attribute.Int64("group.id", group.ID),
		attribute.Int("bookings.created", len(plan.Dates)),
		attribute.Int("dates.skipped", len(plan.Skipped)),
	)

	uc.logger.Info("CreateRecurringBooking: successfully created group id=%d code=%s with %d bookings, %d skipped",
		group.ID, group.Code, len(plan.Dates), len(plan.Skipped))

	uc.publishCreated(ctx, group, len(plan.Dates), plan.TotalAmount)

	return &Response{
		GroupID:         group.ID,
		GroupCode:       group.Code,
		Message:         buildMessage(group.Code, len(plan.Dates), plan),
		PaymentMode:     string(group.PaymentMode),
		TotalBookings:   len(plan.Dates),
		SkippedDates:    plan.Skipped,
		PricePerSession: plan.PricePerSession,
		TotalAmount:     plan.TotalAmount,
	}, nil
}

// publishCreated публикует событие после фиксации транзакции
// Ошибка публикации не отменяет созданную группу
func (uc *UseCase) publishCreated(ctx context.Context, group *domain.RecurringGroup, bookings int, total float64) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.GroupCreatedEvent{
		GroupID:       group.ID,
		GroupCode:     group.Code,
		CourtID:       group.Pattern.CourtID,
		CustomerName:  group.Customer.Name,
		CustomerPhone: group.Customer.Phone,
		PaymentMode:   string(group.PaymentMode),
		TotalBookings: bookings,
		SkippedDates:  len(group.SkippedDates),
		TotalAmount:   total,
	}
	if err := uc.publisher.PublishJSON(pubCtx, domain.EventGroupCreated, event); err != nil {
		uc.logger.Warn("CreateRecurringBooking: failed to publish %s for group id=%d: %v",
			domain.EventGroupCreated, group.ID, err)
	}
}

// venueError переводит ошибку каталога площадки в ошибку usecase
func (uc *UseCase) venueError(what string, id int64, err error, notFound error) error {
	switch {
	case venueservice.IsNotFound(err):
		uc.logger.Warn("CreateRecurringBooking: %s id=%d not found", what, id)
		return notFound
	case errors.Is(err, venueservice.ErrUnavailable):
		uc.logger.Error("CreateRecurringBooking: venue service unavailable for %s id=%d: %v", what, id, err)
		return fmt.Errorf("%w: venue service: %v", ErrTransient, err)
	default:
		uc.logger.Error("CreateRecurringBooking: failed to get %s id=%d: %v", what, id, err)
		return fmt.Errorf("%w: failed to get %s: %v", ErrInternal, what, err)
	}
}

// buildMessage собирает сообщение для оператора
func buildMessage(code string, booked int, plan domain.BookingPlan) string {
	msg := fmt.Sprintf("Recurring booking %s created with %d sessions", code, booked)
	if n := len(plan.Skipped); n > 0 {
		msg += fmt.Sprintf(", %d dates skipped (%d blocked, %d already booked)",
			n, plan.SkippedCount(domain.SkipBlocked), plan.SkippedCount(domain.SkipConflict))
	}
	return msg
}

type nopMetrics struct{}

func (nopMetrics) GroupCreated(string)     {}
func (nopMetrics) DateSkipped(string, int) {}
func (nopMetrics) NoValidDates()           {}
