package get_group_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/groups"
)

const (
	msgInvalidGroupID = "некорректный ID регулярного бронирования"
	msgNotFound       = "регулярное бронирование не найдено"
)

type Handler struct {
	service GroupService
	logger  Logger
}

func NewHandler(service GroupService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/recurring-bookings/{groupId}/bookings
// Бронирования группы по возрастанию даты, включая отмененные
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.ParseIDVar(r, "groupId")
	if err != nil {
		h.logger.Warn("GET /recurring-bookings/{id}/bookings - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	result, err := h.service.GetBookings(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, groups.ErrGroupNotFound):
			h.logger.Warn("GET /recurring-bookings/{id}/bookings - Group not found: group_id=%d", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /recurring-bookings/{id}/bookings - Failed to get bookings: group_id=%d, error=%v",
				groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /recurring-bookings/{id}/bookings - Bookings retrieved: group_id=%d, count=%d",
		groupID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
