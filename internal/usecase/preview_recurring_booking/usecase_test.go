package preview_recurring_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/venueservice"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/availability"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy"
	"github.com/m04kA/SMC-CourtBookingService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store *memstore.Store
	venue *memstore.Venue
	uc    *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	venue := memstore.NewVenue()
	venue.AddCourt(domain.Court{ID: 1, Name: "Court 1", IsActive: true})
	venue.AddCourt(domain.Court{ID: 2, Name: "Court 2", IsActive: false})
	venue.AddTimeSlot(domain.TimeSlot{
		ID:        10,
		StartTime: "18:00",
		EndTime:   "19:00",
		IsActive:  true,
		Pricing: domain.SlotPricing{
			Normal: domain.DayRates{Weekday: 150, Weekend: 180},
			Member: domain.DayRates{Weekday: 120, Weekend: 150},
		},
		PeakPricing: domain.SlotPricing{
			Normal: domain.DayRates{Weekday: 200, Weekend: 240},
			Member: domain.DayRates{Weekday: 170, Weekend: 210},
		},
	})

	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	policies := policy.NewService(store.Policies(), venue, domain.DefaultBookingPolicy(), logger.Nop{})
	checker := availability.NewChecker(store.Bookings(), store.Calendar(), logger.Nop{})

	uc := NewUseCase(venue, policies, checker, bangkok, logger.Nop{})
	uc.timeProvider = fixedClock{now: time.Date(2023, 12, 20, 10, 0, 0, 0, bangkok)}

	return &fixture{store: store, venue: venue, uc: uc}
}

func scenarioA() *Request {
	return &Request{
		CourtID:       1,
		TimeSlotID:    10,
		DurationHours: 1,
		Weekdays:      []int{1, 3},
		StartDate:     date("2024-01-01"),
		EndDate:       date("2024-01-10"),
	}
}

func TestPreview_ScenarioA(t *testing.T) {
	f := newFixture(t)
	f.store.BlockDate(date("2024-01-03"), nil, "club tournament")

	resp, err := f.uc.Execute(context.Background(), scenarioA())
	require.NoError(t, err)

	require.Len(t, resp.Dates, 3)
	assert.Equal(t, date("2024-01-01"), resp.Dates[0].Date)
	assert.Equal(t, date("2024-01-08"), resp.Dates[1].Date)
	assert.Equal(t, date("2024-01-10"), resp.Dates[2].Date)

	require.Len(t, resp.SkippedDates, 1)
	assert.Equal(t, domain.SkippedDate{Date: date("2024-01-03"), Weekday: 3, Reason: domain.SkipBlocked}, resp.SkippedDates[0])

	assert.Equal(t, 150.0, resp.PricePerSession)
	assert.Equal(t, 450.0, resp.TotalAmount)
	assert.False(t, resp.MixedRates)
	assert.Equal(t, "Court 1", resp.CourtName)
	assert.Equal(t, "19:00", resp.EndTime.String())
	assert.Equal(t,
		"Mon, Wed 18:00-19:00 from 2024-01-01 to 2024-01-10: 3 of 4 dates available (1 blocked), total 450.00",
		resp.Summary)
}

func TestPreview_IsIdempotentAndWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.store.BlockDate(date("2024-01-03"), nil, "club tournament")

	first, err := f.uc.Execute(context.Background(), scenarioA())
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), scenarioA())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Zero(t, f.store.GroupCount())
	assert.Zero(t, f.store.BookingCount())
}

func TestPreview_ConflictAndMixedRates(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		CourtID:         1,
		TimeSlotID:      10,
		BookingDate:     date("2024-01-06"),
		StartTime:       "18:30",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentPending,
	})
	require.NoError(t, err)

	req := scenarioA()
	req.Weekdays = []int{5, 6, 0}
	req.StartDate = date("2024-01-05")
	req.EndDate = date("2024-01-07")
	req.DurationHours = 1.5
	req.IsMember = true

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Dates, 2)
	assert.Equal(t, 180.0, resp.Dates[0].Price) // пятница, членский будний тариф
	assert.Equal(t, 225.0, resp.Dates[1].Price) // воскресенье, членский тариф выходного дня
	assert.True(t, resp.MixedRates)
	assert.Equal(t, 180.0, resp.PricePerSession)
	assert.Equal(t, 405.0, resp.TotalAmount)

	require.Len(t, resp.SkippedDates, 1)
	assert.Equal(t, domain.SkipConflict, resp.SkippedDates[0].Reason)
	assert.Contains(t, resp.Summary, "Sun, Fri, Sat")
	assert.Contains(t, resp.Summary, "(1 already booked)")
}

func TestPreview_EmptyExpansionIsNotAnError(t *testing.T) {
	f := newFixture(t)

	req := scenarioA()
	req.StartDate = date("2024-01-02") // вторник
	req.EndDate = date("2024-01-02")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Dates)
	assert.Empty(t, resp.SkippedDates)
	assert.Zero(t, resp.TotalAmount)
}

func TestPreview_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"no weekdays", func(r *Request) { r.Weekdays = nil }, ErrInvalidInput},
		{"weekday out of range", func(r *Request) { r.Weekdays = []int{7} }, ErrInvalidInput},
		{"end before start", func(r *Request) { r.EndDate = date("2023-12-31") }, ErrInvalidInput},
		{"span over three months", func(r *Request) { r.EndDate = date("2024-04-02") }, ErrInvalidInput},
		{"duration not a step multiple", func(r *Request) { r.DurationHours = 0.75 }, ErrInvalidInput},
		{"duration too long", func(r *Request) { r.DurationHours = 4.5 }, ErrInvalidInput},
		{"zero duration", func(r *Request) { r.DurationHours = 0 }, ErrInvalidInput},
		{"start in the past", func(r *Request) { r.StartDate = date("2023-12-19") }, ErrInvalidInput},
		{"longest allowed duration", func(r *Request) { r.DurationHours = 4 }, nil},
		{"unknown court", func(r *Request) { r.CourtID = 9 }, ErrCourtNotFound},
		{"inactive court", func(r *Request) { r.CourtID = 2 }, ErrCourtNotFound},
		{"unknown time slot", func(r *Request) { r.TimeSlotID = 99 }, ErrTimeSlotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := scenarioA()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPreview_SlotEndingAfterMidnight(t *testing.T) {
	f := newFixture(t)
	f.venue.AddTimeSlot(domain.TimeSlot{ID: 11, StartTime: "22:00", EndTime: "23:00", IsActive: true})

	req := scenarioA()
	req.TimeSlotID = 11
	req.DurationHours = 2.5

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPreview_VenueServiceUnavailable(t *testing.T) {
	f := newFixture(t)
	f.venue.FailWith(venueservice.ErrUnavailable)

	_, err := f.uc.Execute(context.Background(), scenarioA())
	assert.ErrorIs(t, err, ErrTransient)
}

func TestPreview_AdvanceBookingLimit(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Policies().Upsert(context.Background(), &domain.BookingPolicy{
		MaxSpanMonths:       3,
		DurationStepMinutes: 30,
		MaxDurationSteps:    8,
		AdvanceBookingDays:  14,
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), scenarioA())
	assert.ErrorIs(t, err, ErrInvalidInput)
}
