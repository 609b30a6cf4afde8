package preview_recurring_booking

import (
	"context"

	previewRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/preview_recurring_booking"
)

type PreviewUseCase interface {
	Execute(ctx context.Context, req *previewRecurring.Request) (*previewRecurring.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
