package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	insert := regexp.QuoteMeta("INSERT INTO group_payments (id,group_id,amount,method,idempotency_key,created_by) VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (group_id, idempotency_key) DO NOTHING RETURNING created_at")

	mock.ExpectQuery(insert).
		WithArgs("7f1c", int64(3), 300.0, "cash", "key-1", int64(42)).
		WillReturnRows(mock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(insert).
		WillReturnRows(mock.NewRows([]string{"created_at"}))

	p := &domain.GroupPayment{
		ID:             "7f1c",
		GroupID:        3,
		Amount:         300,
		Method:         domain.MethodCash,
		IdempotencyKey: ptr.Ptr("key-1"),
		RecordedBy:     42,
	}

	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, p.CreatedAt.IsZero())

	created, err = repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, created, "duplicate idempotency key is not journaled twice")

	assert.NoError(t, mock.ExpectationsWereMet())
}
