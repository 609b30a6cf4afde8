package record_group_payment

import (
	"fmt"
	"math"
	"strings"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

const maxIdempotencyKeyLength = 128

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.GroupID <= 0 {
		return fmt.Errorf("%w: groupId must be positive", ErrInvalidInput)
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || domain.RoundMoney(req.Amount) <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if !domain.PaymentMethod(req.Method).IsValid() {
		return fmt.Errorf("%w: method must be one of cash, bank_transfer, promptpay, card", ErrInvalidInput)
	}

	if req.IdempotencyKey != nil {
		key := strings.TrimSpace(*req.IdempotencyKey)
		if key == "" {
			req.IdempotencyKey = nil
		} else if len(key) > maxIdempotencyKeyLength {
			return fmt.Errorf("%w: idempotency key must be at most %d characters", ErrInvalidInput, maxIdempotencyKeyLength)
		} else {
			req.IdempotencyKey = &key
		}
	}

	return nil
}
