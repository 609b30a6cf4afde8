package list_recurring_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/groups/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(statusStr, search, pageStr, pageSizeStr string) (*models.ListGroupsRequest, error) {
	req := &models.ListGroupsRequest{
		Search: search,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return nil, fmt.Errorf("invalid page value: %w", err)
		}
		req.Page = page
	}

	if pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid pageSize value: %w", err)
		}
		req.PageSize = pageSize
	}

	return req, nil
}
