package list_recurring_bookings

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/groups/models"
)

type GroupService interface {
	List(ctx context.Context, req *models.ListGroupsRequest) (*models.GroupListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
