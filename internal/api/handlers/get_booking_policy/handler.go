package get_booking_policy

import (
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking-policy
// Query params: courtId (опционально)
// Без сохраненной политики возвращаются значения по умолчанию, source=default
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := ParseCourtID(r.URL.Query().Get("courtId"))
	if err != nil {
		h.logger.Warn("GET /booking-policy - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.Get(r.Context(), courtID)
	if err != nil {
		h.logger.Error("GET /booking-policy - Failed to get policy: court_id=%d, error=%v", ptr.Value(courtID), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /booking-policy - Policy retrieved: court_id=%d, source=%s", ptr.Value(courtID), result.Source)
	handlers.RespondJSON(w, http.StatusOK, result)
}
