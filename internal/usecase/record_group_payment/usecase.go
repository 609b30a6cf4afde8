package record_group_payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	groupRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/group"
	"github.com/m04kA/SMC-CourtBookingService/pkg/mq"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

const publishTimeout = 3 * time.Second

var tracer = otel.Tracer("usecase/record_group_payment")

// UseCase use case для регистрации платежа bulk-группы
type UseCase struct {
	groupRepo   GroupRepository
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	txManager   TransactionManager
	publisher   EventPublisher
	metrics     MetricsRecorder
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	groupRepo GroupRepository,
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		groupRepo:   groupRepo,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		publisher:   mq.NopPublisher{},
		metrics:     nopMetrics{},
		logger:      logger,
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

// Execute регистрирует платеж и пересчитывает статус оплаты группы
// Запись в журнал, увеличение оплаченной суммы и статус бронирований меняются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "RecordGroupPayment")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.Int64("group.id", req.GroupID),
		attribute.String("payment.method", req.Method),
	)

	uc.logger.Info("RecordGroupPayment: user=%d, group=%d, amount=%.2f, method=%s",
		req.UserID, req.GroupID, req.Amount, req.Method)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RecordGroupPayment: validation failed: %v", err)
		return nil, err
	}
	amount := domain.RoundMoney(req.Amount)

	var (
		group     *domain.RecurringGroup
		balance   domain.BulkPayment
		paymentID string
		duplicate bool
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Группа блокируется до конца транзакции
		g, err := uc.groupRepo.GetByID(txCtx, req.GroupID)
		if err != nil {
			if errors.Is(err, groupRepo.ErrGroupNotFound) {
				uc.logger.Warn("RecordGroupPayment: group id=%d not found", req.GroupID)
				return ErrGroupNotFound
			}
			uc.logger.Error("RecordGroupPayment: failed to get group id=%d: %v", req.GroupID, err)
			return fmt.Errorf("%w: failed to get group: %w", ErrInternal, err)
		}

		if !g.IsBulk() || g.BulkPayment == nil {
			uc.logger.Warn("RecordGroupPayment: group id=%d is in %s mode", g.ID, g.PaymentMode)
			return ErrNotBulkGroup
		}
		if g.IsCancelled() {
			uc.logger.Warn("RecordGroupPayment: group id=%d is cancelled", g.ID)
			return ErrGroupCancelled
		}
		group = g

		// 3. Запись в журнал, повтор с тем же ключом не меняет баланс
		payment := &domain.GroupPayment{
			ID:             uuid.NewString(),
			GroupID:        g.ID,
			Amount:         amount,
			Method:         domain.PaymentMethod(req.Method),
			IdempotencyKey: req.IdempotencyKey,
			RecordedBy:     req.UserID,
		}
		inserted, err := uc.paymentRepo.Create(txCtx, payment)
		if err != nil {
			uc.logger.Error("RecordGroupPayment: failed to write payment journal: %v", err)
			return fmt.Errorf("%w: failed to write payment journal: %w", ErrInternal, err)
		}
		if !inserted {
			uc.logger.Info("RecordGroupPayment: duplicate idempotency key %q for group id=%d", *req.IdempotencyKey, g.ID)
			duplicate = true
			balance = *g.BulkPayment
			return nil
		}
		paymentID = payment.ID

		// 4. Атомарное увеличение оплаченной суммы
		updated, err := uc.groupRepo.IncrementBulkPaid(txCtx, g.ID, amount)
		if err != nil {
			if errors.Is(err, groupRepo.ErrNotBulk) {
				return ErrNotBulkGroup
			}
			uc.logger.Error("RecordGroupPayment: failed to increment paid amount: %v", err)
			return fmt.Errorf("%w: failed to increment paid amount: %w", ErrInternal, err)
		}
		balance = *updated

		// 5. Производный статус оплаты на всех бронированиях группы
		if _, err := uc.bookingRepo.SetPaymentStatusByGroup(txCtx, g.ID, balance.Status()); err != nil {
			uc.logger.Error("RecordGroupPayment: failed to mirror payment status: %v", err)
			return fmt.Errorf("%w: failed to mirror payment status: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if txmanager.IsTransient(err) {
			uc.logger.Warn("RecordGroupPayment: transient failure: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil, err
	}

	if balance.IsOverpaid() {
		uc.logger.Warn("RecordGroupPayment: group id=%d is overpaid: paid=%.2f, total=%.2f",
			group.ID, balance.PaidAmount, balance.TotalAmount)
	}

	if !duplicate {
		uc.metrics.PaymentRecorded(req.Method, amount)
		uc.publishRecorded(ctx, group.ID, paymentID, amount, req.Method, balance)
		uc.logger.Info("RecordGroupPayment: group id=%d paid %.2f of %.2f (%s)",
			group.ID, balance.PaidAmount, balance.TotalAmount, balance.Status())
	}

	return &Response{
		GroupID:         group.ID,
		GroupCode:       group.Code,
		PaymentID:       paymentID,
		Duplicate:       duplicate,
		TotalAmount:     balance.TotalAmount,
		PaidAmount:      domain.RoundMoney(balance.PaidAmount),
		RemainingAmount: balance.Remaining(),
		PaymentStatus:   string(balance.Status()),
		Overpaid:        balance.IsOverpaid(),
	}, nil
}

func (uc *UseCase) publishRecorded(ctx context.Context, groupID int64, paymentID string, amount float64, method string, balance domain.BulkPayment) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.PaymentRecordedEvent{
		GroupID:       groupID,
		PaymentID:     paymentID,
		Amount:        amount,
		Method:        method,
		PaidAmount:    balance.PaidAmount,
		TotalAmount:   balance.TotalAmount,
		PaymentStatus: string(balance.Status()),
	}
	if err := uc.publisher.PublishJSON(pubCtx, domain.EventPaymentRecorded, event); err != nil {
		uc.logger.Warn("RecordGroupPayment: failed to publish %s for group id=%d: %v",
			domain.EventPaymentRecorded, groupID, err)
	}
}

type nopMetrics struct{}

func (nopMetrics) PaymentRecorded(string, float64) {}
