package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// Service сервис для работы с отдельными бронированиями корта
type Service struct {
	bookingRepo BookingRepository
	groupRepo   GroupRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	groupRepo GroupRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		groupRepo:   groupRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// UpdateStatus переводит бронирование по жизненному циклу
// confirmed -> checked_in -> completed, отмена из confirmed и checked_in.
// Если у группы бронирования не осталось ожидающих игры бронирований, группа завершается
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Принадлежность к группе не меняется, читаем ее до транзакции
	current, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	var result *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.lockGroup(txCtx, "UpdateStatus", current.GroupID); err != nil {
			return err
		}

		booking, err := s.getBooking(txCtx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot move from %s to %s",
				bookingID, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus); err != nil {
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		if booking.GroupID != nil {
			completed, err := s.groupRepo.MarkCompletedIfResolved(txCtx, *booking.GroupID)
			if err != nil {
				s.logger.Error("UpdateStatus: failed to resolve group id=%d: %v", *booking.GroupID, err)
				return fmt.Errorf("%w: UpdateStatus - group repository error: %w", ErrInternal, err)
			}
			if completed {
				s.logger.Info("UpdateStatus: group id=%d has no pending bookings left, marked completed", *booking.GroupID)
			}
		}

		result, err = s.getBooking(txCtx, "UpdateStatus", bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(result), nil
}

// UpdatePaymentStatus выставляет статус оплаты бронирования из группы с посессионной оплатой
// или одиночного бронирования. Бронирования bulk-групп отражают баланс группы и здесь не меняются
func (s *Service) UpdatePaymentStatus(ctx context.Context, bookingID int64, req *models.UpdatePaymentStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdatePaymentStatus: updating booking id=%d to payment status=%s by user=%d",
		bookingID, req.PaymentStatus, req.UserID)

	newStatus, err := models.ToDomainPaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid payment status=%s for booking id=%d", req.PaymentStatus, bookingID)
		return nil, fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
	}

	current, err := s.getBooking(ctx, "UpdatePaymentStatus", bookingID)
	if err != nil {
		return nil, err
	}

	var result *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if current.GroupID != nil {
			group, err := s.groupRepo.GetByID(txCtx, *current.GroupID)
			if err != nil {
				s.logger.Error("UpdatePaymentStatus: failed to get group id=%d: %v", *current.GroupID, err)
				return fmt.Errorf("%w: UpdatePaymentStatus - group repository error: %w", ErrInternal, err)
			}
			if group.IsBulk() {
				s.logger.Warn("UpdatePaymentStatus: booking id=%d belongs to bulk group id=%d", bookingID, group.ID)
				return ErrBulkPaymentGroup
			}
		}

		booking, err := s.getBooking(txCtx, "UpdatePaymentStatus", bookingID)
		if err != nil {
			return err
		}

		if err := s.bookingRepo.UpdatePaymentStatus(txCtx, bookingID, newStatus); err != nil {
			s.logger.Error("UpdatePaymentStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdatePaymentStatus - repository error: %w", ErrInternal, err)
		}

		booking.PaymentStatus = newStatus
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdatePaymentStatus: successfully updated booking id=%d", bookingID)
	return models.FromDomainBooking(result), nil
}

// lockGroup блокирует строку группы раньше строки бронирования,
// в том же порядке, что отмена группы и регистрация платежа
func (s *Service) lockGroup(ctx context.Context, op string, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		s.logger.Error("%s: failed to lock group id=%d: %v", op, *groupID, err)
		return fmt.Errorf("%w: %s - group repository error: %w", ErrInternal, op, err)
	}
	return nil
}

// getBooking получает бронирование и переводит ошибки репозитория в ошибки сервиса
func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return booking, nil
}
