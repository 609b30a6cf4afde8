package domain

import "time"

// BlockedDate a day the venue (or a single court) is closed
type BlockedDate struct {
	ID      int64
	Date    time.Time
	CourtID *int64 // nil = whole venue
	Reason  string
}

// AppliesTo reports whether the block closes the given court
func (b *BlockedDate) AppliesTo(courtID int64) bool {
	return b.CourtID == nil || *b.CourtID == courtID
}

// DateAvailability classification of one candidate date
type DateAvailability struct {
	Date     time.Time
	Weekday  int
	Bookable bool
	Reason   SkipReason // empty when bookable
}

// PlannedDate a bookable date with its frozen price
type PlannedDate struct {
	Date    time.Time
	Weekday int
	Price   float64
}

// BookingPlan result of expanding, checking and pricing a pattern
type BookingPlan struct {
	Dates           []PlannedDate
	Skipped         []SkippedDate
	PricePerSession float64
	MixedRates      bool
	TotalAmount     float64
}

// SkippedCount returns the number of skipped dates with the given reason
func (p *BookingPlan) SkippedCount(reason SkipReason) int {
	n := 0
	for _, s := range p.Skipped {
		if s.Reason == reason {
			n++
		}
	}
	return n
}

// AssemblePlan prices the bookable dates of a check result and collects the skipped ones.
// PricePerSession is the price of the first bookable date; MixedRates is set when
// bookable dates fall on both weekday and weekend rates with different prices.
func AssemblePlan(checks []DateAvailability, slot TimeSlot, durationHours float64, member bool) BookingPlan {
	plan := BookingPlan{
		Dates:   make([]PlannedDate, 0, len(checks)),
		Skipped: make([]SkippedDate, 0),
	}

	var total float64
	for _, c := range checks {
		if !c.Bookable {
			plan.Skipped = append(plan.Skipped, SkippedDate{Date: c.Date, Weekday: c.Weekday, Reason: c.Reason})
			continue
		}

		price := ResolvePrice(slot, durationHours, DayTypeOf(c.Weekday), slot.IsPeak, member)
		if len(plan.Dates) == 0 {
			plan.PricePerSession = price
		} else if price != plan.PricePerSession {
			plan.MixedRates = true
		}

		plan.Dates = append(plan.Dates, PlannedDate{Date: c.Date, Weekday: c.Weekday, Price: price})
		total += price
	}

	plan.TotalAmount = RoundMoney(total)
	return plan
}
