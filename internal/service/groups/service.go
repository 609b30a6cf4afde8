package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	groupRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/group"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/groups/models"
)

// Service сервис чтения регулярных групп для операторского интерфейса
type Service struct {
	groupRepo   GroupRepository
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса групп
func NewService(
	groupRepo GroupRepository,
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	logger Logger,
) *Service {
	return &Service{
		groupRepo:   groupRepo,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// GetByID получает группу со счетчиками, пропущенными датами и журналом платежей
func (s *Service) GetByID(ctx context.Context, id int64) (*models.GroupResponse, error) {
	s.logger.Info("GetByID: fetching group id=%d", id)

	group, err := s.getGroup(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	var payments []*domain.GroupPayment
	if group.IsBulk() {
		payments, err = s.paymentRepo.ListByGroup(ctx, id)
		if err != nil {
			s.logger.Error("GetByID: failed to list payments for group id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: GetByID - payment repository error: %v", ErrInternal, err)
		}
	}

	return models.FromDomainGroup(group, payments), nil
}

// GetBookings возвращает бронирования группы по возрастанию даты
func (s *Service) GetBookings(ctx context.Context, id int64) (*models.GroupBookingsResponse, error) {
	s.logger.Info("GetBookings: fetching bookings of group id=%d", id)

	group, err := s.getGroup(ctx, "GetBookings", id)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByGroupID(ctx, id)
	if err != nil {
		s.logger.Error("GetBookings: repository error for group id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBookings: successfully fetched %d bookings of group id=%d", len(bookings), id)
	return models.FromDomainGroupBookings(group, bookings), nil
}

// List возвращает страницу групп с фильтром по статусу и поиском
func (s *Service) List(ctx context.Context, req *models.ListGroupsRequest) (*models.GroupListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.logger.Info("List: fetching groups status=%v, search=%q, page=%d, pageSize=%d",
		filter.Status, filter.Search, filter.Page, filter.PageSize)

	items, total, err := s.groupRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.GroupListResponse{
		Groups:   make([]models.GroupSummary, len(items)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for i, g := range items {
		resp.Groups[i] = models.FromDomainGroupSummary(g)
	}

	return resp, nil
}

func (s *Service) getGroup(ctx context.Context, op string, id int64) (*domain.RecurringGroup, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, groupRepo.ErrGroupNotFound) {
			s.logger.Warn("%s: group id=%d not found", op, id)
			return nil, ErrGroupNotFound
		}
		s.logger.Error("%s: repository error for group id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return group, nil
}
