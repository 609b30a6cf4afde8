package preview_recurring_booking

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtId must be positive", ErrInvalidInput)
	}

	if req.TimeSlotID <= 0 {
		return fmt.Errorf("%w: timeSlotId must be positive", ErrInvalidInput)
	}

	if math.IsNaN(req.DurationHours) || math.IsInf(req.DurationHours, 0) || req.DurationHours <= 0 {
		return fmt.Errorf("%w: durationHours must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	return nil
}

// validateDates проверяет, что диапазон не начинается в прошлом
// и не выходит за горизонт бронирования политики
func validateDates(pattern domain.Pattern, today time.Time, policy domain.BookingPolicy) error {
	if domain.DateOf(pattern.StartDate).Before(today) {
		return fmt.Errorf("%w: startDate %s is in the past", ErrInvalidInput, pattern.StartDate.Format(domain.DateFormat))
	}

	if policy.HasAdvanceBookingLimit() {
		maxDate := today.AddDate(0, 0, policy.AdvanceBookingDays)
		if domain.DateOf(pattern.EndDate).After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrInvalidInput, policy.AdvanceBookingDays)
		}
	}

	return nil
}
