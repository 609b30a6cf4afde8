package preview_recurring_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	previewRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/preview_recurring_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgCourtNotFound      = "корт не найден"
	msgTimeSlotNotFound   = "временной слот не найден"
)

type Handler struct {
	useCase PreviewUseCase
	logger  Logger
}

func NewHandler(useCase PreviewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/recurring-bookings/preview
// Ничего не сохраняет, повторный вызов с теми же данными дает тот же ответ
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-bookings/preview - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /recurring-bookings/preview - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, previewRecurring.ErrInvalidInput):
			h.logger.Warn("POST /recurring-bookings/preview - Invalid input: court_id=%d, error=%v", req.CourtID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, previewRecurring.ErrCourtNotFound):
			h.logger.Warn("POST /recurring-bookings/preview - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, previewRecurring.ErrTimeSlotNotFound):
			h.logger.Warn("POST /recurring-bookings/preview - Time slot not found: time_slot_id=%d", req.TimeSlotID)
			handlers.RespondNotFound(w, msgTimeSlotNotFound)

		case errors.Is(err, previewRecurring.ErrTransient):
			h.logger.Warn("POST /recurring-bookings/preview - Transient failure: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /recurring-bookings/preview - Failed to build preview: court_id=%d, error=%v",
				req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-bookings/preview - Preview built: court_id=%d, dates=%d, skipped=%d",
		req.CourtID, len(result.Dates), len(result.SkippedDates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
