package cancel_recurring_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	cancelRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/cancel_recurring_booking"
)

const (
	msgInvalidGroupID = "некорректный ID регулярного бронирования"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "регулярное бронирование не найдено"
	msgCannotCancel   = "завершенное регулярное бронирование нельзя отменить"
)

type Handler struct {
	useCase CancelUseCase
	logger  Logger
}

func NewHandler(useCase CancelUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/recurring-bookings/{groupId}/cancel
// Повторная отмена не является ошибкой
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.ParseIDVar(r, "groupId")
	if err != nil {
		h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelRecurring.Request{UserID: userID, GroupID: groupID})
	if err != nil {
		switch {
		case errors.Is(err, cancelRecurring.ErrGroupNotFound):
			h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Group not found: group_id=%d", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelRecurring.ErrCannotCancel):
			h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Cannot cancel: group_id=%d", groupID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, cancelRecurring.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, cancelRecurring.ErrTransient):
			h.logger.Warn("PATCH /recurring-bookings/{id}/cancel - Transient failure: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /recurring-bookings/{id}/cancel - Failed to cancel group: group_id=%d, error=%v",
				groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /recurring-bookings/{id}/cancel - Group cancelled: group_id=%d, user_id=%d, bookings=%d",
		groupID, userID, result.CancelledBookings)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
