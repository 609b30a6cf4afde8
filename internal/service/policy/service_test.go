package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-CourtBookingService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

func newService() *Service {
	venue := memstore.NewVenue()
	venue.AddCourt(domain.Court{ID: 1, Name: "Court 1", IsActive: true})
	venue.AddCourt(domain.Court{ID: 2, Name: "Court 2", IsActive: true})

	return NewService(memstore.New().Policies(), venue, domain.DefaultBookingPolicy(), logger.Nop{})
}

func TestService_Resolve_Hierarchy(t *testing.T) {
	s := newService()
	ctx := context.Background()

	policy, err := s.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBookingPolicy(), policy)

	_, err = s.Upsert(ctx, &models.UpsertPolicyRequest{
		MaxSpanMonths: 6, DurationStepMinutes: 30, MaxDurationSteps: 6, AdvanceBookingDays: 90,
	})
	require.NoError(t, err)

	_, err = s.Upsert(ctx, &models.UpsertPolicyRequest{
		CourtID: ptr.Ptr(int64(2)), MaxSpanMonths: 1, DurationStepMinutes: 60, MaxDurationSteps: 2,
	})
	require.NoError(t, err)

	policy, err = s.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, policy.MaxSpanMonths)
	assert.True(t, policy.IsVenueWide())

	policy, err = s.Resolve(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, policy.MaxSpanMonths)
	assert.Equal(t, 120, policy.MaxDurationMinutes())
}

func TestService_Get_Source(t *testing.T) {
	s := newService()
	ctx := context.Background()

	resp, err := s.Get(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SourceDefault, resp.Source)
	assert.Nil(t, resp.ID)

	_, err = s.Upsert(ctx, &models.UpsertPolicyRequest{
		MaxSpanMonths: 3, DurationStepMinutes: 30, MaxDurationSteps: 8,
	})
	require.NoError(t, err)

	resp, err = s.Get(ctx, ptr.Ptr(int64(1)))
	require.NoError(t, err)
	assert.Equal(t, models.SourceVenue, resp.Source)
	require.NotNil(t, resp.ID)
}

func TestService_Upsert_Errors(t *testing.T) {
	s := newService()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.UpsertPolicyRequest
		wantErr error
	}{
		{"span too long", models.UpsertPolicyRequest{MaxSpanMonths: 13, DurationStepMinutes: 30, MaxDurationSteps: 8}, ErrInvalidInput},
		{"step does not divide hour", models.UpsertPolicyRequest{MaxSpanMonths: 3, DurationStepMinutes: 25, MaxDurationSteps: 8}, ErrInvalidInput},
		{"duration exceeds day", models.UpsertPolicyRequest{MaxSpanMonths: 3, DurationStepMinutes: 60, MaxDurationSteps: 25}, ErrInvalidInput},
		{"negative advance", models.UpsertPolicyRequest{MaxSpanMonths: 3, DurationStepMinutes: 30, MaxDurationSteps: 8, AdvanceBookingDays: -1}, ErrInvalidInput},
		{"bad court id", models.UpsertPolicyRequest{CourtID: ptr.Ptr(int64(0)), MaxSpanMonths: 3, DurationStepMinutes: 30, MaxDurationSteps: 8}, ErrInvalidInput},
		{"unknown court", models.UpsertPolicyRequest{CourtID: ptr.Ptr(int64(9)), MaxSpanMonths: 3, DurationStepMinutes: 30, MaxDurationSteps: 8}, ErrCourtNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := s.Upsert(ctx, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
