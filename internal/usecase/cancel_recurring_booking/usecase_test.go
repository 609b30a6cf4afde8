package cancel_recurring_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store     *memstore.Store
	publisher *recordingPublisher
	uc        *UseCase
}

// newFixture фиксирует время 2023-12-20 01:00 по Бангкоку, в UTC это еще 19 декабря
func newFixture(t *testing.T) *fixture {
	t.Helper()

	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	store := memstore.New()
	publisher := &recordingPublisher{}
	uc := NewUseCase(store.Groups(), store.Bookings(), store.TxManager(), bangkok, logger.Nop{}).
		WithPublisher(publisher)
	uc.timeProvider = fixedClock{now: time.Date(2023, 12, 20, 1, 0, 0, 0, bangkok)}

	return &fixture{store: store, publisher: publisher, uc: uc}
}

type seedBooking struct {
	date   string
	status domain.BookingStatus
}

func (f *fixture) seedGroup(t *testing.T, status domain.GroupStatus, bookings ...seedBooking) int64 {
	t.Helper()
	ctx := context.Background()

	created, err := f.store.Groups().Create(ctx, &domain.RecurringGroup{
		Code:        "RB-20231201-00001",
		Customer:    domain.CustomerSnapshot{Name: "Somchai", Phone: "0812345678"},
		Pattern:     domain.Pattern{CourtID: 1, TimeSlotID: 10, DurationHours: 1, Weekdays: []int{3}},
		Status:      status,
		PaymentMode: domain.PaymentPerSession,
	})
	require.NoError(t, err)

	for _, b := range bookings {
		_, err := f.store.Bookings().Create(ctx, &domain.Booking{
			GroupID:         &created.ID,
			CourtID:         1,
			TimeSlotID:      10,
			BookingDate:     date(b.date),
			StartTime:       "18:00",
			DurationMinutes: 60,
			Status:          b.status,
			PaymentStatus:   domain.PaymentPending,
			Price:           150,
		})
		require.NoError(t, err)
	}
	return created.ID
}

func (f *fixture) statuses(t *testing.T, groupID int64) map[string]domain.BookingStatus {
	t.Helper()
	bookings, err := f.store.Bookings().GetByGroupID(context.Background(), groupID)
	require.NoError(t, err)
	result := make(map[string]domain.BookingStatus, len(bookings))
	for _, b := range bookings {
		result[b.BookingDate.Format(domain.DateFormat)] = b.Status
	}
	return result
}

func TestCancel_OnlyFutureBookings(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.GroupActive,
		seedBooking{"2023-12-06", domain.StatusCompleted},
		seedBooking{"2023-12-13", domain.StatusConfirmed},
		seedBooking{"2023-12-20", domain.StatusConfirmed},
		seedBooking{"2023-12-27", domain.StatusCheckedIn},
		seedBooking{"2024-01-03", domain.StatusConfirmed},
	)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 7, GroupID: groupID})
	require.NoError(t, err)

	assert.False(t, resp.AlreadyCancelled)
	assert.Equal(t, int64(3), resp.CancelledBookings)
	assert.Equal(t, 5, resp.TotalBookings)
	assert.Equal(t, 1, resp.CompletedBookings)
	assert.Equal(t, 3, resp.CancelledTotal)
	assert.Equal(t, 2, resp.ActiveBookings)
	assert.Contains(t, resp.Message, "3 upcoming sessions cancelled")

	assert.Equal(t, map[string]domain.BookingStatus{
		"2023-12-06": domain.StatusCompleted,
		"2023-12-13": domain.StatusConfirmed,
		"2023-12-20": domain.StatusCancelled,
		"2023-12-27": domain.StatusCancelled,
		"2024-01-03": domain.StatusCancelled,
	}, f.statuses(t, groupID))

	group, err := f.store.Groups().GetByID(context.Background(), groupID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupCancelled, group.Status)
	assert.NotNil(t, group.CancelledAt)
	assert.Equal(t, []string{domain.EventGroupCancelled}, f.publisher.keys)
}

func TestCancel_AlreadyCancelledIsNoOp(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.GroupActive,
		seedBooking{"2024-01-03", domain.StatusConfirmed},
	)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, GroupID: groupID})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 7, GroupID: groupID})
	require.NoError(t, err)
	assert.True(t, resp.AlreadyCancelled)
	assert.Zero(t, resp.CancelledBookings)
	assert.Equal(t, 1, resp.CancelledTotal)
	assert.Len(t, f.publisher.keys, 1)
}

func TestCancel_CompletedGroup(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.GroupCompleted,
		seedBooking{"2023-12-13", domain.StatusCompleted},
	)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, GroupID: groupID})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, f.publisher.keys)
}

func TestCancel_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.GroupActive,
		seedBooking{"2023-12-27", domain.StatusConfirmed},
		seedBooking{"2024-01-03", domain.StatusConfirmed},
	)
	f.store.InjectFault("bookings.CancelFutureByGroup", 1, errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, GroupID: groupID})
	assert.ErrorIs(t, err, ErrInternal)

	group, err := f.store.Groups().GetByID(context.Background(), groupID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupActive, group.Status)
	assert.Zero(t, group.Counts.Cancelled)
}

func TestCancel_DeadlockIsTransient(t *testing.T) {
	f := newFixture(t)
	groupID := f.seedGroup(t, domain.GroupActive,
		seedBooking{"2023-12-27", domain.StatusConfirmed},
	)
	f.store.InjectFault("bookings.CancelFutureByGroup", 0, &pq.Error{Code: "40P01", Message: "deadlock detected"})

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, GroupID: groupID})
	assert.ErrorIs(t, err, ErrTransient)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.publisher.keys)

	group, err := f.store.Groups().GetByID(context.Background(), groupID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupActive, group.Status)
}

func TestCancel_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, GroupID: 404})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = f.uc.Execute(context.Background(), &Request{UserID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{GroupID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
