package create_recurring_booking

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса и нормализует данные клиента
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

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

	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Nickname = strings.TrimSpace(req.Customer.Nickname)
	req.Customer.Phone = strings.TrimSpace(req.Customer.Phone)
	req.Customer.Email = strings.TrimSpace(req.Customer.Email)

	if req.Customer.Name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Customer.Name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name must be at most %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}
	if req.Customer.Phone == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	if req.Customer.Email != "" && !strings.Contains(req.Customer.Email, "@") {
		return fmt.Errorf("%w: customer email is invalid", ErrInvalidInput)
	}

	if !domain.PaymentMode(req.PaymentMode).IsValid() {
		return fmt.Errorf("%w: paymentMode must be per_session or bulk", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
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
