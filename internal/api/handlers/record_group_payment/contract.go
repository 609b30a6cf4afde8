package record_group_payment

import (
	"context"

	recordPayment "github.com/m04kA/SMC-CourtBookingService/internal/usecase/record_group_payment"
)

type RecordPaymentUseCase interface {
	Execute(ctx context.Context, req *recordPayment.Request) (*recordPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
