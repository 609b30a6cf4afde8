package domain

import (
	"math"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// DayRates hourly rate per day type
type DayRates struct {
	Weekday float64
	Weekend float64
}

// SlotPricing rate table of a time slot
type SlotPricing struct {
	Normal DayRates
	Member DayRates
}

// TimeSlot is a bookable time slot as configured in the venue catalog
type TimeSlot struct {
	ID          int64
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsPeak      bool
	IsActive    bool
	Pricing     SlotPricing
	PeakPricing SlotPricing
}

// Court is a venue court as configured in the venue catalog
type Court struct {
	ID       int64
	Name     string
	IsActive bool
}

// ResolvePrice returns the price of one occurrence:
// (peak ? peak rate : normal rate) * duration, where the rate is the member or normal one.
func ResolvePrice(slot TimeSlot, durationHours float64, dayType DayType, peak bool, member bool) float64 {
	table := slot.Pricing
	if peak {
		table = slot.PeakPricing
	}

	rates := table.Normal
	if member {
		rates = table.Member
	}

	rate := rates.Weekday
	if dayType == DayTypeWeekend {
		rate = rates.Weekend
	}

	return RoundMoney(rate * durationHours)
}

// RoundMoney rounds an amount to the currency minor unit (satang)
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
