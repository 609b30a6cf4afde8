package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

const tableName = "booking_policies"

var columns = []string{
	"id",
	"court_id",
	"max_span_months",
	"duration_step_minutes",
	"max_duration_steps",
	"advance_booking_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий политик регулярных бронирований
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCourt получает политику конкретного уровня:
// courtID задан - политика корта, nil - общая политика площадки
func (r *Repository) GetByCourt(ctx context.Context, courtID *int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(tableName)

	// Фильтрация по court_id (NULL или конкретное значение)
	if courtID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_id": *courtID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourt - build select query: %w", ErrBuildQuery, err)
	}

	var policy domain.BookingPolicy
	var court sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&court,
		&policy.MaxSpanMonths,
		&policy.DurationStepMinutes,
		&policy.MaxDurationSteps,
		&policy.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourt - scan policy: %w", ErrScanRow, err)
	}

	if court.Valid {
		policy.CourtID = &court.Int64
	}
	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}

// GetWithHierarchy получает политику с учетом приоритетов:
// 1. Политика корта
// 2. Общая политика площадки
//
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, courtID int64) (*domain.BookingPolicy, error) {
	policy, err := r.GetByCourt(ctx, &courtID)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - court level: %w", ErrExecQuery, err)
	}

	policy, err = r.GetByCourt(ctx, nil)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - venue level: %w", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// Upsert создает или обновляет политику уровня policy.CourtID
func (r *Repository) Upsert(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"court_id",
			"max_span_months",
			"duration_step_minutes",
			"max_duration_steps",
			"advance_booking_days",
		).
		Values(
			policy.CourtID,
			policy.MaxSpanMonths,
			policy.DurationStepMinutes,
			policy.MaxDurationSteps,
			policy.AdvanceBookingDays,
		).
		Suffix(`ON CONFLICT ((COALESCE(court_id, 0))) DO UPDATE SET
			max_span_months = EXCLUDED.max_span_months,
			duration_step_minutes = EXCLUDED.duration_step_minutes,
			max_duration_steps = EXCLUDED.max_duration_steps,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&policy.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}
