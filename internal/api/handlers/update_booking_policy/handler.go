package update_booking_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCourtNotFound      = "корт не найден"
	msgInvalidData        = "некорректные параметры политики"
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

// Handle PUT /api/v1/booking-policy
// courtId в теле запроса задает политику корта, без него политику площадки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /booking-policy - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpsertPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking-policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrCourtNotFound):
			h.logger.Warn("PUT /booking-policy - Court not found: court_id=%d", ptr.Value(req.CourtID))
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /booking-policy - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /booking-policy - Failed to save policy: court_id=%d, error=%v", ptr.Value(req.CourtID), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /booking-policy - Policy saved: court_id=%d, user_id=%d", ptr.Value(req.CourtID), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
