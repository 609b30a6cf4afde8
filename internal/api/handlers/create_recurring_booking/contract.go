package create_recurring_booking

import (
	"context"

	createRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_recurring_booking"
)

type CreateUseCase interface {
	Execute(ctx context.Context, req *createRecurring.Request) (*createRecurring.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
