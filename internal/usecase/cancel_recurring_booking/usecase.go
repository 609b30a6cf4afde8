package cancel_recurring_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	groupRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/group"
	"github.com/m04kA/SMC-CourtBookingService/pkg/mq"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

const publishTimeout = 3 * time.Second

var tracer = otel.Tracer("usecase/cancel_recurring_booking")

// UseCase use case для отмены регулярного бронирования
type UseCase struct {
	groupRepo    GroupRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	groupRepo GroupRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		groupRepo:    groupRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    mq.NopPublisher{},
		metrics:      nopMetrics{},
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
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

// Execute отменяет группу и все ее будущие бронирования
// Прошедшие и уже завершенные бронирования не меняются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CancelRecurringBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int64("group.id", req.GroupID))

	uc.logger.Info("CancelRecurringBooking: user=%d, group=%d", req.UserID, req.GroupID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelRecurringBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Сегодняшняя дата в часовом поясе площадки
	today := domain.Today(uc.timeProvider.Now(), uc.location)

	var (
		group            *domain.RecurringGroup
		cancelled        int64
		alreadyCancelled bool
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3. Блокируем строку группы
		g, err := uc.groupRepo.GetByID(txCtx, req.GroupID)
		if err != nil {
			if errors.Is(err, groupRepo.ErrGroupNotFound) {
				uc.logger.Warn("CancelRecurringBooking: group id=%d not found", req.GroupID)
				return ErrGroupNotFound
			}
			uc.logger.Error("CancelRecurringBooking: failed to get group id=%d: %v", req.GroupID, err)
			return fmt.Errorf("%w: failed to get group: %w", ErrInternal, err)
		}

		switch g.Status {
		case domain.GroupCancelled:
			uc.logger.Info("CancelRecurringBooking: group id=%d is already cancelled", g.ID)
			alreadyCancelled = true
			group = g
			return nil
		case domain.GroupCompleted:
			uc.logger.Warn("CancelRecurringBooking: group id=%d is completed", g.ID)
			return ErrCannotCancel
		}

		// 4. Статус группы
		if _, err := uc.groupRepo.MarkCancelled(txCtx, g.ID); err != nil {
			uc.logger.Error("CancelRecurringBooking: failed to mark group id=%d cancelled: %v", g.ID, err)
			return fmt.Errorf("%w: failed to cancel group: %w", ErrInternal, err)
		}

		// 5. Каскад только на бронирования с сегодняшнего дня
		n, err := uc.bookingRepo.CancelFutureByGroup(txCtx, g.ID, today)
		if err != nil {
			uc.logger.Error("CancelRecurringBooking: failed to cancel bookings of group id=%d: %v", g.ID, err)
			return fmt.Errorf("%w: failed to cancel bookings: %w", ErrInternal, err)
		}
		cancelled = n

		// 6. Перечитываем группу с актуальными счетчиками
		group, err = uc.groupRepo.GetByID(txCtx, g.ID)
		if err != nil {
			uc.logger.Error("CancelRecurringBooking: failed to reload group id=%d: %v", g.ID, err)
			return fmt.Errorf("%w: failed to reload group: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if txmanager.IsTransient(err) {
			uc.logger.Warn("CancelRecurringBooking: transient failure: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil, err
	}

	resp = &Response{
		GroupID:           group.ID,
		GroupCode:         group.Code,
		AlreadyCancelled:  alreadyCancelled,
		CancelledBookings: cancelled,
		TotalBookings:     group.Counts.Total,
		CompletedBookings: group.Counts.Completed,
		CancelledTotal:    group.Counts.Cancelled,
		ActiveBookings:    group.Counts.Active(),
	}

	if alreadyCancelled {
		resp.Message = fmt.Sprintf("Recurring booking %s was already cancelled", group.Code)
		return resp, nil
	}

	resp.Message = fmt.Sprintf("Recurring booking %s cancelled: %d upcoming sessions cancelled", group.Code, cancelled)

	uc.metrics.GroupCancelled()
	span.SetAttributes(attribute.Int64("bookings.cancelled", cancelled))
	uc.logger.Info("CancelRecurringBooking: group id=%d cancelled, %d bookings cancelled from %s",
		group.ID, cancelled, today.Format(domain.DateFormat))

	uc.publishCancelled(ctx, group, cancelled)

	return resp, nil
}

func (uc *UseCase) publishCancelled(ctx context.Context, group *domain.RecurringGroup, cancelled int64) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.GroupCancelledEvent{
		GroupID:           group.ID,
		GroupCode:         group.Code,
		CancelledBookings: cancelled,
	}
	if err := uc.publisher.PublishJSON(pubCtx, domain.EventGroupCancelled, event); err != nil {
		uc.logger.Warn("CancelRecurringBooking: failed to publish %s for group id=%d: %v",
			domain.EventGroupCancelled, group.ID, err)
	}
}

type nopMetrics struct{}

func (nopMetrics) GroupCancelled() {}
