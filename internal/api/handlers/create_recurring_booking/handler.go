package create_recurring_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	createRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_recurring_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCourtNotFound      = "корт не найден"
	msgTimeSlotNotFound   = "временной слот не найден"
	msgNoValidDates       = "ни одна дата не доступна для бронирования"
)

type Handler struct {
	useCase CreateUseCase
	logger  Logger
}

func NewHandler(useCase CreateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/recurring-bookings
// Занятые и закрытые даты не считаются ошибкой и возвращаются в skippedDates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /recurring-bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /recurring-bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createRecurring.ErrInvalidInput):
			h.logger.Warn("POST /recurring-bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createRecurring.ErrCourtNotFound):
			h.logger.Warn("POST /recurring-bookings - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createRecurring.ErrTimeSlotNotFound):
			h.logger.Warn("POST /recurring-bookings - Time slot not found: time_slot_id=%d", req.TimeSlotID)
			handlers.RespondNotFound(w, msgTimeSlotNotFound)

		case errors.Is(err, createRecurring.ErrNoValidDates):
			h.logger.Warn("POST /recurring-bookings - No valid dates: court_id=%d, range=%s..%s",
				req.CourtID, req.StartDate, req.EndDate)
			handlers.RespondUnprocessable(w, msgNoValidDates)

		case errors.Is(err, createRecurring.ErrTransient):
			h.logger.Warn("POST /recurring-bookings - Transient failure: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /recurring-bookings - Failed to create recurring booking: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-bookings - Recurring booking created: group_id=%d, code=%s, bookings=%d, skipped=%d",
		result.GroupID, result.GroupCode, result.TotalBookings, len(result.SkippedDates))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
