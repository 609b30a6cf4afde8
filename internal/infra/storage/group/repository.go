package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

const (
	tableName        = "recurring_groups"
	skippedTableName = "recurring_group_skipped_dates"
)

// Счетчики всегда вычисляются по таблице бронирований, в группе они не хранятся
var columns = []string{
	"g.id",
	"g.code",
	"g.customer_name",
	"g.customer_nickname",
	"g.customer_phone",
	"g.customer_email",
	"g.customer_is_member",
	"g.court_id",
	"g.time_slot_id",
	"g.duration_hours",
	"g.weekdays",
	"g.start_date",
	"g.end_date",
	"g.status",
	"g.payment_mode",
	"g.price_per_session",
	"g.bulk_total_amount",
	"g.bulk_paid_amount",
	"g.notes",
	"g.created_by",
	"g.cancelled_at",
	"g.created_at",
	"g.updated_at",
	"(SELECT COUNT(*) FROM bookings b WHERE b.group_id = g.id) AS total_bookings",
	"(SELECT COUNT(*) FROM bookings b WHERE b.group_id = g.id AND b.status = 'completed') AS completed_bookings",
	"(SELECT COUNT(*) FROM bookings b WHERE b.group_id = g.id AND b.status = 'cancelled') AS cancelled_bookings",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository репозиторий регулярных групп бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория групп
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает группу. Для bulk-режима сохраняется начальный баланс
func (r *Repository) Create(ctx context.Context, group *domain.RecurringGroup) (*domain.RecurringGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var bulkTotal, bulkPaid interface{}
	if group.BulkPayment != nil {
		bulkTotal = group.BulkPayment.TotalAmount
		bulkPaid = group.BulkPayment.PaidAmount
	}

	weekdays := make(pq.Int64Array, len(group.Pattern.Weekdays))
	for i, wd := range group.Pattern.Weekdays {
		weekdays[i] = int64(wd)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"code",
			"customer_name",
			"customer_nickname",
			"customer_phone",
			"customer_email",
			"customer_is_member",
			"court_id",
			"time_slot_id",
			"duration_hours",
			"weekdays",
			"start_date",
			"end_date",
			"status",
			"payment_mode",
			"price_per_session",
			"bulk_total_amount",
			"bulk_paid_amount",
			"notes",
			"created_by",
		).
		Values(
			group.Code,
			group.Customer.Name,
			group.Customer.Nickname,
			group.Customer.Phone,
			group.Customer.Email,
			group.Customer.IsMember,
			group.Pattern.CourtID,
			group.Pattern.TimeSlotID,
			group.Pattern.DurationHours,
			weekdays,
			group.Pattern.StartDate,
			group.Pattern.EndDate,
			group.Status,
			group.PaymentMode,
			group.PricePerSession,
			bulkTotal,
			bulkPaid,
			group.Notes,
			group.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&group.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time

	return group, nil
}

// AddSkippedDates сохраняет пропущенные даты группы одним запросом
func (r *Repository) AddSkippedDates(ctx context.Context, groupID int64, skipped []domain.SkippedDate) error {
	if len(skipped) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(skippedTableName).
		Columns("group_id", "skipped_date", "weekday", "reason")
	for _, s := range skipped {
		insertBuilder = insertBuilder.Values(groupID, s.Date, s.Weekday, s.Reason)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddSkippedDates - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddSkippedDates - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает группу со счетчиками и пропущенными датами
// Внутри транзакции строка группы блокируется (FOR UPDATE OF g)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RecurringGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName + " g").
		Where(squirrel.Eq{"g.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF g")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	group, err := scanGroup(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan group: %w", ErrScanRow, err)
	}

	skipped, err := r.getSkippedDates(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	group.SkippedDates = skipped

	return group, nil
}

func (r *Repository) getSkippedDates(ctx context.Context, executor DBExecutor, groupID int64) ([]domain.SkippedDate, error) {
	query, args, err := psqlbuilder.Select("skipped_date", "weekday", "reason").
		From(skippedTableName).
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("skipped_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getSkippedDates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSkippedDates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	skipped := make([]domain.SkippedDate, 0)
	for rows.Next() {
		var s domain.SkippedDate
		if err := rows.Scan(&s.Date, &s.Weekday, &s.Reason); err != nil {
			return nil, fmt.Errorf("%w: getSkippedDates - scan row: %w", ErrScanRow, err)
		}
		s.Date = domain.DateOf(s.Date)
		skipped = append(skipped, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSkippedDates - rows error: %w", ErrScanRow, err)
	}

	return skipped, nil
}

// List возвращает страницу групп и общее количество подходящих записей
// Поиск идет по коду, имени, никнейму и телефону клиента
func (r *Repository) List(ctx context.Context, filter domain.GroupFilter) ([]*domain.RecurringGroup, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"g.status": *filter.Status})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"g.code": pattern},
			squirrel.ILike{"g.customer_name": pattern},
			squirrel.ILike{"g.customer_nickname": pattern},
			squirrel.ILike{"g.customer_phone": pattern},
		})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From(tableName + " g").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %w", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute count: %w", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName + " g").
		Where(where).
		OrderBy("g.created_at DESC", "g.id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	groups := make([]*domain.RecurringGroup, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return groups, total, nil
}

// MarkCancelled переводит активную группу в статус cancelled
// Возвращает false, если группа уже не активна
func (r *Repository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.GroupCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.GroupActive}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkCancelled - build update query: %w", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, "MarkCancelled", query, args)
}

// MarkCompletedIfResolved переводит активную группу в completed,
// если у нее не осталось подтвержденных или начатых бронирований
func (r *Repository) MarkCompletedIfResolved(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName + " g").
		Set("status", domain.GroupCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"g.id": id, "g.status": domain.GroupActive}).
		Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM bookings b WHERE b.group_id = g.id AND b.status IN (?, ?))",
			domain.StatusConfirmed, domain.StatusCheckedIn,
		)).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkCompletedIfResolved - build update query: %w", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, "MarkCompletedIfResolved", query, args)
}

// IncrementBulkPaid атомарно увеличивает оплаченную сумму bulk-группы
// и возвращает актуальный баланс
func (r *Repository) IncrementBulkPaid(ctx context.Context, id int64, amount float64) (*domain.BulkPayment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("bulk_paid_amount", squirrel.Expr("bulk_paid_amount + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_mode": domain.PaymentBulk}).
		Suffix("RETURNING bulk_total_amount, bulk_paid_amount").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBulkPaid - build update query: %w", ErrBuildQuery, err)
	}

	var balance domain.BulkPayment
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance.TotalAmount, &balance.PaidAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotBulk
	}
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBulkPaid - execute update: %w", ErrExecQuery, err)
	}

	return &balance, nil
}

func (r *Repository) execUpdate(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (bool, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGroup(row rowScanner) (*domain.RecurringGroup, error) {
	var (
		group                domain.RecurringGroup
		weekdays             pq.Int64Array
		bulkTotal, bulkPaid  sql.NullFloat64
		notes                sql.NullString
		cancelledAt          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&group.ID,
		&group.Code,
		&group.Customer.Name,
		&group.Customer.Nickname,
		&group.Customer.Phone,
		&group.Customer.Email,
		&group.Customer.IsMember,
		&group.Pattern.CourtID,
		&group.Pattern.TimeSlotID,
		&group.Pattern.DurationHours,
		&weekdays,
		&group.Pattern.StartDate,
		&group.Pattern.EndDate,
		&group.Status,
		&group.PaymentMode,
		&group.PricePerSession,
		&bulkTotal,
		&bulkPaid,
		&notes,
		&group.CreatedBy,
		&cancelledAt,
		&createdAt,
		&updatedAt,
		&group.Counts.Total,
		&group.Counts.Completed,
		&group.Counts.Cancelled,
	)
	if err != nil {
		return nil, err
	}

	group.Pattern.Weekdays = make([]int, len(weekdays))
	for i, wd := range weekdays {
		group.Pattern.Weekdays[i] = int(wd)
	}
	group.Pattern.StartDate = domain.DateOf(group.Pattern.StartDate)
	group.Pattern.EndDate = domain.DateOf(group.Pattern.EndDate)

	if bulkTotal.Valid && bulkPaid.Valid {
		group.BulkPayment = &domain.BulkPayment{
			TotalAmount: bulkTotal.Float64,
			PaidAmount:  bulkPaid.Float64,
		}
	}
	if notes.Valid {
		group.Notes = &notes.String
	}
	if cancelledAt.Valid {
		group.CancelledAt = &cancelledAt.Time
	}
	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time
	group.SkippedDates = make([]domain.SkippedDate, 0)

	return &group, nil
}
