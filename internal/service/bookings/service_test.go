package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

type fixture struct {
	store   *memstore.Store
	service *Service
}

func newFixture() *fixture {
	store := memstore.New()
	return &fixture{
		store:   store,
		service: NewService(store.Bookings(), store.Groups(), store.TxManager(), logger.Nop{}),
	}
}

func (f *fixture) seedGroup(t *testing.T, mode domain.PaymentMode, dates ...string) (*domain.RecurringGroup, []*domain.Booking) {
	t.Helper()
	ctx := context.Background()

	group := &domain.RecurringGroup{
		Code:        "RB-20231220-00001",
		Status:      domain.GroupActive,
		PaymentMode: mode,
	}
	if mode == domain.PaymentBulk {
		group.BulkPayment = &domain.BulkPayment{TotalAmount: 150 * float64(len(dates))}
	}
	group, err := f.store.Groups().Create(ctx, group)
	require.NoError(t, err)

	start, err := types.NewTimeStringFromString("18:00")
	require.NoError(t, err)

	bookings := make([]*domain.Booking, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse(domain.DateFormat, d)
		require.NoError(t, err)

		b, err := f.store.Bookings().Create(ctx, &domain.Booking{
			GroupID:         &group.ID,
			CourtID:         1,
			TimeSlotID:      10,
			BookingDate:     day,
			StartTime:       start,
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
			PaymentStatus:   domain.PaymentPending,
			Price:           150,
		})
		require.NoError(t, err)
		bookings = append(bookings, b)
	}
	return group, bookings
}

func TestService_UpdateStatus_Lifecycle(t *testing.T) {
	f := newFixture()
	_, bookings := f.seedGroup(t, domain.PaymentPerSession, "2024-01-01")
	ctx := context.Background()

	resp, err := f.service.UpdateStatus(ctx, bookings[0].ID, &models.UpdateStatusRequest{UserID: 1, Status: "checked_in"})
	require.NoError(t, err)
	assert.Equal(t, "checked_in", resp.Status)
	assert.Equal(t, "19:00", resp.EndTime)

	_, err = f.service.UpdateStatus(ctx, bookings[0].ID, &models.UpdateStatusRequest{UserID: 1, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestService_UpdateStatus_CompletesResolvedGroup(t *testing.T) {
	f := newFixture()
	group, bookings := f.seedGroup(t, domain.PaymentPerSession, "2024-01-01", "2024-01-08")
	ctx := context.Background()

	_, err := f.service.UpdateStatus(ctx, bookings[0].ID, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)

	stored, err := f.store.Groups().GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupActive, stored.Status)

	_, err = f.service.UpdateStatus(ctx, bookings[1].ID, &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	stored, err = f.store.Groups().GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupCompleted, stored.Status)
	assert.Equal(t, 1, stored.Counts.Completed)
	assert.Equal(t, 1, stored.Counts.Cancelled)
}

func TestService_UpdatePaymentStatus(t *testing.T) {
	f := newFixture()
	_, perSession := f.seedGroup(t, domain.PaymentPerSession, "2024-01-01")
	_, bulk := f.seedGroup(t, domain.PaymentBulk, "2024-01-02")
	ctx := context.Background()

	resp, err := f.service.UpdatePaymentStatus(ctx, perSession[0].ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)

	_, err = f.service.UpdatePaymentStatus(ctx, bulk[0].ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	assert.ErrorIs(t, err, ErrBulkPaymentGroup)

	stored, err := f.store.Bookings().GetByID(ctx, bulk[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)
}

// lockRecorder запоминает порядок чтений строк внутри сервиса
type lockRecorder struct {
	calls []string
}

type recordingBookings struct {
	BookingRepository
	rec *lockRecorder
}

func (r recordingBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.rec.calls = append(r.rec.calls, "booking")
	return r.BookingRepository.GetByID(ctx, id)
}

type recordingGroups struct {
	GroupRepository
	rec *lockRecorder
}

func (r recordingGroups) GetByID(ctx context.Context, id int64) (*domain.RecurringGroup, error) {
	r.rec.calls = append(r.rec.calls, "group")
	return r.GroupRepository.GetByID(ctx, id)
}

func TestService_LocksGroupBeforeBooking(t *testing.T) {
	f := newFixture()
	_, bookings := f.seedGroup(t, domain.PaymentPerSession, "2024-01-01", "2024-01-08")
	ctx := context.Background()

	rec := &lockRecorder{}
	service := NewService(
		recordingBookings{BookingRepository: f.store.Bookings(), rec: rec},
		recordingGroups{GroupRepository: f.store.Groups(), rec: rec},
		f.store.TxManager(),
		logger.Nop{},
	)

	_, err := service.UpdateStatus(ctx, bookings[0].ID, &models.UpdateStatusRequest{UserID: 1, Status: "checked_in"})
	require.NoError(t, err)
	// первое чтение вне транзакции, затем группа, затем бронирование
	assert.Equal(t, []string{"booking", "group", "booking"}, rec.calls[:3])

	rec.calls = nil
	_, err = service.UpdatePaymentStatus(ctx, bookings[1].ID, &models.UpdatePaymentStatusRequest{UserID: 1, PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, []string{"booking", "group", "booking"}, rec.calls)
}

func TestService_Errors(t *testing.T) {
	f := newFixture()
	_, bookings := f.seedGroup(t, domain.PaymentPerSession, "2024-01-01")
	ctx := context.Background()

	_, err := f.service.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.service.UpdateStatus(ctx, bookings[0].ID, &models.UpdateStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.UpdatePaymentStatus(ctx, bookings[0].ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.UpdateStatus(ctx, 999, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
