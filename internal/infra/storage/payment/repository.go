package payment

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

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)

const tableName = "group_payments"

// Repository журнал платежей bulk-групп
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает платеж в журнал
// Возвращает false, если платеж с таким ключом идемпотентности уже был записан для группы
func (r *Repository) Create(ctx context.Context, payment *domain.GroupPayment) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("id", "group_id", "amount", "method", "idempotency_key", "created_by").
		Values(
			payment.ID,
			payment.GroupID,
			payment.Amount,
			payment.Method,
			payment.IdempotencyKey,
			payment.RecordedBy,
		).
		Suffix("ON CONFLICT (group_id, idempotency_key) DO NOTHING RETURNING created_at").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&payment.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return true, nil
}

// ListByGroup возвращает платежи группы в порядке поступления
func (r *Repository) ListByGroup(ctx context.Context, groupID int64) ([]*domain.GroupPayment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "group_id", "amount", "method", "idempotency_key", "created_by", "created_at").
		From(tableName).
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByGroup - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByGroup - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.GroupPayment, 0)
	for rows.Next() {
		var p domain.GroupPayment
		var key sql.NullString

		if err := rows.Scan(&p.ID, &p.GroupID, &p.Amount, &p.Method, &key, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByGroup - scan row: %w", ErrScanRow, err)
		}
		if key.Valid {
			p.IdempotencyKey = &key.String
		}
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByGroup - rows error: %w", ErrScanRow, err)
	}

	return payments, nil
}
