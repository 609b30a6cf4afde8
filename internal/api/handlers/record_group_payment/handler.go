package record_group_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	recordPayment "github.com/m04kA/SMC-CourtBookingService/internal/usecase/record_group_payment"
)

const (
	msgInvalidGroupID     = "некорректный ID регулярного бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "регулярное бронирование не найдено"
	msgNotBulk            = "группа оплачивается за каждую игру отдельно"
	msgGroupCancelled     = "регулярное бронирование отменено"
)

type Handler struct {
	useCase RecordPaymentUseCase
	logger  Logger
}

func NewHandler(useCase RecordPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/recurring-bookings/{groupId}/payment
// Header: Idempotency-Key (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.ParseIDVar(r, "groupId")
	if err != nil {
		h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := req.ToUseCaseRequest(userID, groupID, r.Header.Get(IdempotencyKeyHeader))

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, recordPayment.ErrInvalidInput):
			h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Invalid input: group_id=%d, error=%v", groupID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, recordPayment.ErrGroupNotFound):
			h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Group not found: group_id=%d", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, recordPayment.ErrNotBulkGroup):
			h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Not a bulk group: group_id=%d", groupID)
			handlers.RespondConflict(w, msgNotBulk)

		case errors.Is(err, recordPayment.ErrGroupCancelled):
			h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Group cancelled: group_id=%d", groupID)
			handlers.RespondConflict(w, msgGroupCancelled)

		case errors.Is(err, recordPayment.ErrTransient):
			h.logger.Warn("PATCH /recurring-bookings/{id}/payment - Transient failure: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /recurring-bookings/{id}/payment - Failed to record payment: group_id=%d, error=%v",
				groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /recurring-bookings/{id}/payment - Payment recorded: group_id=%d, paid=%.2f/%.2f, duplicate=%t",
		groupID, result.PaidAmount, result.TotalAmount, result.Duplicate)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
