package get_recurring_booking

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/groups/models"
)

type GroupService interface {
	GetByID(ctx context.Context, id int64) (*models.GroupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
