package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	policyRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/venueservice"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

// Service сервис для работы с политиками бронирования
type Service struct {
	policyRepo  PolicyRepository
	venueClient VenueServiceClient
	defaults    domain.BookingPolicy
	logger      Logger
}

// NewService создает новый экземпляр сервиса политик
// defaults используется, когда в БД нет ни политики корта, ни политики площадки
func NewService(
	policyRepo PolicyRepository,
	venueClient VenueServiceClient,
	defaults domain.BookingPolicy,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:  policyRepo,
		venueClient: venueClient,
		defaults:    defaults,
		logger:      logger,
	}
}

// Resolve возвращает действующую политику для корта
// Приоритет: корт > площадка > значения из конфигурации
func (s *Service) Resolve(ctx context.Context, courtID int64) (domain.BookingPolicy, error) {
	policy, err := s.policyRepo.GetWithHierarchy(ctx, courtID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return s.defaults, nil
		}
		s.logger.Error("Resolve: repository error for court=%d: %v", courtID, err)
		return domain.BookingPolicy{}, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	return *policy, nil
}

// Get возвращает действующую политику
// Без courtID возвращается политика площадки
func (s *Service) Get(ctx context.Context, courtID *int64) (*models.PolicyResponse, error) {
	s.logger.Info("Get: fetching policy for court=%d", ptr.Value(courtID))

	var (
		policy *domain.BookingPolicy
		err    error
	)
	if courtID != nil {
		policy, err = s.policyRepo.GetWithHierarchy(ctx, *courtID)
	} else {
		policy, err = s.policyRepo.GetByCourt(ctx, nil)
	}

	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("Get: no stored policy for court=%d, using defaults", ptr.Value(courtID))
			defaults := s.defaults
			defaults.CourtID = courtID
			return models.FromDomainPolicy(&defaults, models.SourceDefault), nil
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy, sourceOf(policy)), nil
}

// Upsert создает или заменяет политику корта или площадки
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: saving policy for court=%d by user=%d", ptr.Value(req.CourtID), req.UserID)

	if err := validatePolicy(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	if req.CourtID != nil {
		if _, err := s.venueClient.GetCourt(ctx, *req.CourtID); err != nil {
			if errors.Is(err, venueservice.ErrCourtNotFound) {
				s.logger.Warn("Upsert: court id=%d not found", *req.CourtID)
				return nil, ErrCourtNotFound
			}
			s.logger.Error("Upsert: failed to get court id=%d: %v", *req.CourtID, err)
			return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
		}
	}

	saved, err := s.policyRepo.Upsert(ctx, req.ToDomainPolicy())
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved policy id=%d (level: %s)", saved.ID, sourceOf(saved))
	return models.FromDomainPolicy(saved, sourceOf(saved)), nil
}

// validatePolicy валидирует параметры политики
func validatePolicy(req *models.UpsertPolicyRequest) error {
	if req.CourtID != nil && *req.CourtID <= 0 {
		return fmt.Errorf("%w: courtId must be positive", ErrInvalidInput)
	}

	if req.MaxSpanMonths <= 0 || req.MaxSpanMonths > 12 {
		return fmt.Errorf("%w: maxSpanMonths must be between 1 and 12", ErrInvalidInput)
	}

	// Шаг должен укладываться в час целое число раз
	if req.DurationStepMinutes <= 0 || 60%req.DurationStepMinutes != 0 {
		return fmt.Errorf("%w: durationStepMinutes must divide 60", ErrInvalidInput)
	}

	if req.MaxDurationSteps <= 0 || req.DurationStepMinutes*req.MaxDurationSteps > 24*60 {
		return fmt.Errorf("%w: maxDurationSteps must be positive and fit in a day", ErrInvalidInput)
	}

	if req.AdvanceBookingDays < 0 || req.AdvanceBookingDays > 365 {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and 365", ErrInvalidInput)
	}

	return nil
}

// sourceOf возвращает уровень политики для логирования и ответа
func sourceOf(p *domain.BookingPolicy) string {
	if p.IsVenueWide() {
		return models.SourceVenue
	}
	return models.SourceCourt
}
