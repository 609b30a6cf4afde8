package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblePlan_SkipsAndPrices(t *testing.T) {
	checks := []DateAvailability{
		{Date: date("2024-01-01"), Weekday: 1, Bookable: true},
		{Date: date("2024-01-03"), Weekday: 3, Reason: SkipBlocked},
		{Date: date("2024-01-08"), Weekday: 1, Bookable: true},
		{Date: date("2024-01-10"), Weekday: 3, Bookable: true},
	}

	plan := AssemblePlan(checks, testSlot(), 1, false)

	require.Len(t, plan.Dates, 3)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, SkipBlocked, plan.Skipped[0].Reason)
	assert.Equal(t, date("2024-01-03"), plan.Skipped[0].Date)
	assert.Equal(t, 150.0, plan.PricePerSession)
	assert.False(t, plan.MixedRates)
	assert.Equal(t, 450.0, plan.TotalAmount)
	assert.Equal(t, 1, plan.SkippedCount(SkipBlocked))
	assert.Equal(t, 0, plan.SkippedCount(SkipConflict))
}

func TestAssemblePlan_MixedRatesAndPeak(t *testing.T) {
	slot := testSlot()
	slot.IsPeak = true
	checks := []DateAvailability{
		{Date: date("2024-01-05"), Weekday: 5, Bookable: true},
		{Date: date("2024-01-06"), Weekday: 6, Bookable: true},
	}

	plan := AssemblePlan(checks, slot, 1.5, true)

	require.Len(t, plan.Dates, 2)
	assert.Equal(t, 255.0, plan.Dates[0].Price)
	assert.Equal(t, 315.0, plan.Dates[1].Price)
	assert.Equal(t, 255.0, plan.PricePerSession)
	assert.True(t, plan.MixedRates)
	assert.Equal(t, 570.0, plan.TotalAmount)
}

func TestAssemblePlan_Empty(t *testing.T) {
	plan := AssemblePlan(nil, testSlot(), 1, false)

	assert.NotNil(t, plan.Dates)
	assert.NotNil(t, plan.Skipped)
	assert.Empty(t, plan.Dates)
	assert.Zero(t, plan.PricePerSession)
	assert.Zero(t, plan.TotalAmount)
}

func TestBlockedDate_AppliesTo(t *testing.T) {
	court := int64(2)
	venueWide := BlockedDate{Date: date("2024-01-03")}
	courtOnly := BlockedDate{Date: date("2024-01-03"), CourtID: &court}

	assert.True(t, venueWide.AppliesTo(1))
	assert.True(t, courtOnly.AppliesTo(2))
	assert.False(t, courtOnly.AppliesTo(1))
}
