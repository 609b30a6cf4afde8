package get_group_bookings

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/groups/models"
)

type GroupService interface {
	GetBookings(ctx context.Context, id int64) (*models.GroupBookingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
