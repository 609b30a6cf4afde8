package get_booking_policy

import (
	"fmt"
	"strconv"
)

// ParseCourtID разбирает опциональный query параметр courtId
// Пустое значение означает политику всей площадки
func ParseCourtID(courtIDStr string) (*int64, error) {
	if courtIDStr == "" {
		return nil, nil
	}

	courtID, err := strconv.ParseInt(courtIDStr, 10, 64)
	if err != nil {
		return nil, err
	}
	if courtID <= 0 {
		return nil, fmt.Errorf("courtId must be positive, got %d", courtID)
	}

	return &courtID, nil
}
