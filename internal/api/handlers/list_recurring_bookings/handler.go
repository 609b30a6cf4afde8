package list_recurring_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/groups"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
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

// Handle GET /api/v1/recurring-bookings
// Query params: status, search, page, pageSize (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceReq, err := ToServiceRequest(query.Get("status"), query.Get("search"), query.Get("page"), query.Get("pageSize"))
	if err != nil {
		h.logger.Warn("GET /recurring-bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, groups.ErrInvalidInput):
			h.logger.Warn("GET /recurring-bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /recurring-bookings - Failed to list groups: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /recurring-bookings - Groups retrieved: count=%d, total=%d", len(result.Groups), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
