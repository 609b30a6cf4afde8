package record_group_payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

type fixture struct {
	store *memstore.Store
	uc    *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	uc := NewUseCase(store.Groups(), store.Bookings(), store.Payments(), store.TxManager(), logger.Nop{})
	return &fixture{store: store, uc: uc}
}

// seedGroup создает группу из четырех игр по 150
func (f *fixture) seedGroup(t *testing.T, mode domain.PaymentMode) int64 {
	t.Helper()
	ctx := context.Background()

	group := &domain.RecurringGroup{
		Code:            "RB-20231220-00001",
		Customer:        domain.CustomerSnapshot{Name: "Somchai", Phone: "0812345678"},
		Pattern:         domain.Pattern{CourtID: 1, TimeSlotID: 10, DurationHours: 1, Weekdays: []int{1, 3}},
		Status:          domain.GroupActive,
		PaymentMode:     mode,
		PricePerSession: 150,
	}
	if mode == domain.PaymentBulk {
		group.BulkPayment = &domain.BulkPayment{TotalAmount: 600}
	}
	created, err := f.store.Groups().Create(ctx, group)
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := f.store.Bookings().Create(ctx, &domain.Booking{
			GroupID:         &created.ID,
			CourtID:         1,
			TimeSlotID:      10,
			BookingDate:     start.AddDate(0, 0, 7*i),
			StartTime:       "18:00",
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
			PaymentStatus:   domain.PaymentPending,
			Price:           150,
		})
		require.NoError(t, err)
	}
	return created.ID
}

func (f *fixture) bookingStatuses(t *testing.T, groupID int64) []domain.PaymentStatus {
	t.Helper()
	bookings, err := f.store.Bookings().GetByGroupID(context.Background(), groupID)
	require.NoError(t, err)
	statuses := make([]domain.PaymentStatus, 0, len(bookings))
	for _, b := range bookings {
		statuses = append(statuses, b.PaymentStatus)
	}
	return statuses
}

func payment(groupID int64, amount float64) *Request {
	return &Request{UserID: 7, GroupID: groupID, Amount: amount, Method: string(domain.MethodCash)}
}

func TestRecordPayment_ScenarioB(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.PaymentBulk)

	resp, err := f.uc.Execute(context.Background(), payment(groupID, 300))
	require.NoError(t, err)
	assert.Equal(t, 300.0, resp.PaidAmount)
	assert.Equal(t, 300.0, resp.RemainingAmount)
	assert.Equal(t, "partial", resp.PaymentStatus)
	assert.NotEmpty(t, resp.PaymentID)
	assert.Equal(t, []domain.PaymentStatus{"partial", "partial", "partial", "partial"}, f.bookingStatuses(t, groupID))

	resp, err = f.uc.Execute(context.Background(), payment(groupID, 300))
	require.NoError(t, err)
	assert.Equal(t, 600.0, resp.PaidAmount)
	assert.Zero(t, resp.RemainingAmount)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.False(t, resp.Overpaid)
	assert.Equal(t, []domain.PaymentStatus{"paid", "paid", "paid", "paid"}, f.bookingStatuses(t, groupID))

	journal, err := f.store.Payments().ListByGroup(context.Background(), groupID)
	require.NoError(t, err)
	assert.Len(t, journal, 2)
}

func TestRecordPayment_IdempotencyKey(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.PaymentBulk)

	req := payment(groupID, 300)
	req.IdempotencyKey = ptr.Ptr("pay-1")
	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	retry := payment(groupID, 300)
	retry.IdempotencyKey = ptr.Ptr(" pay-1 ")
	second, err := f.uc.Execute(context.Background(), retry)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Empty(t, second.PaymentID)
	assert.Equal(t, 300.0, second.PaidAmount)

	group, err := f.store.Groups().GetByID(context.Background(), groupID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, group.BulkPayment.PaidAmount)
}

func TestRecordPayment_ConcurrentPaymentsSum(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.PaymentBulk)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), payment(groupID, 60))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	group, err := f.store.Groups().GetByID(context.Background(), groupID)
	require.NoError(t, err)
	assert.InDelta(t, 600.0, group.BulkPayment.PaidAmount, 0.001)
	assert.Equal(t, domain.PaymentPaid, group.BulkPayment.Status())
}

func TestRecordPayment_OverpaymentIsAccepted(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.PaymentBulk)

	resp, err := f.uc.Execute(context.Background(), payment(groupID, 700))
	require.NoError(t, err)
	assert.True(t, resp.Overpaid)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Zero(t, resp.RemainingAmount)
}

func TestRecordPayment_RollsBackJournalOnFailure(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.PaymentBulk)
	f.store.InjectFault("groups.IncrementBulkPaid", 0, errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), payment(groupID, 300))
	assert.ErrorIs(t, err, ErrInternal)

	journal, err := f.store.Payments().ListByGroup(context.Background(), groupID)
	require.NoError(t, err)
	assert.Empty(t, journal)
	assert.Equal(t, []domain.PaymentStatus{"pending", "pending", "pending", "pending"}, f.bookingStatuses(t, groupID))
}

func TestRecordPayment_DeadlockIsTransient(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.PaymentBulk)
	f.store.InjectFault("groups.IncrementBulkPaid", 0, &pq.Error{Code: "40P01", Message: "deadlock detected"})

	_, err := f.uc.Execute(context.Background(), payment(groupID, 300))
	assert.ErrorIs(t, err, ErrTransient)
	assert.NotErrorIs(t, err, ErrInternal)

	group, err := f.store.Groups().GetByID(context.Background(), groupID)
	require.NoError(t, err)
	assert.Zero(t, group.BulkPayment.PaidAmount)
}

func TestRecordPayment_Errors(t *testing.T) {
	f := newFixture(t)
	bulkID := f.seedGroup(t, domain.PaymentBulk)
	perSessionID := f.seedGroup(t, domain.PaymentPerSession)
	cancelledID := f.seedGroup(t, domain.PaymentBulk)
	_, err := f.store.Groups().MarkCancelled(context.Background(), cancelledID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"zero amount", payment(bulkID, 0), ErrInvalidInput},
		{"negative amount", payment(bulkID, -50), ErrInvalidInput},
		{"unknown method", &Request{UserID: 7, GroupID: bulkID, Amount: 10, Method: "cheque"}, ErrInvalidInput},
		{"missing user", &Request{GroupID: bulkID, Amount: 10, Method: "cash"}, ErrInvalidInput},
		{"unknown group", payment(999, 10), ErrGroupNotFound},
		{"per session group", payment(perSessionID, 10), ErrNotBulkGroup},
		{"cancelled group", payment(cancelledID, 10), ErrGroupCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
