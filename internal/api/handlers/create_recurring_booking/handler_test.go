package create_recurring_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	createRecurring "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_recurring_booking"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type stubUseCase struct {
	got  *createRecurring.Request
	resp *createRecurring.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createRecurring.Request) (*createRecurring.Response, error) {
	s.got = req
	return s.resp, s.err
}

const validBody = `{
	"courtId": 1,
	"timeSlotId": 10,
	"durationHours": 1,
	"weekdays": [1, 3],
	"startDate": "2024-01-01",
	"endDate": "2024-01-10",
	"customer": {"name": "Somchai", "phone": "0812345678", "isMember": true},
	"paymentMode": "bulk"
}`

func serve(t *testing.T, uc *stubUseCase, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recurring-bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{resp: &createRecurring.Response{
		GroupID:       5,
		GroupCode:     "RB-20231220-00001",
		PaymentMode:   "bulk",
		TotalBookings: 3,
		SkippedDates: []domain.SkippedDate{
			{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Weekday: 3, Reason: domain.SkipConflict},
		},
		TotalAmount: 360,
	}}

	rec := serve(t, uc, validBody, 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.UserID)
	assert.True(t, uc.got.Customer.IsMember)
	assert.Equal(t, "bulk", uc.got.PaymentMode)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), uc.got.EndDate)

	var body CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RB-20231220-00001", body.GroupCode)
	require.Len(t, body.SkippedDates, 1)
	assert.Equal(t, SkippedDateResponse{Date: "2024-01-03", Weekday: 3, Reason: "conflict"}, body.SkippedDates[0])
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		userID int64
		err    error
		status int
	}{
		{"missing user", validBody, 0, nil, http.StatusUnauthorized},
		{"broken json", `{"courtId":`, 7, nil, http.StatusBadRequest},
		{"bad date", strings.Replace(validBody, "2024-01-10", "10/01/2024", 1), 7, nil, http.StatusBadRequest},
		{"invalid input", validBody, 7, createRecurring.ErrInvalidInput, http.StatusBadRequest},
		{"court not found", validBody, 7, createRecurring.ErrCourtNotFound, http.StatusNotFound},
		{"slot not found", validBody, 7, createRecurring.ErrTimeSlotNotFound, http.StatusNotFound},
		{"no valid dates", validBody, 7, createRecurring.ErrNoValidDates, http.StatusUnprocessableEntity},
		{"transient", validBody, 7, createRecurring.ErrTransient, http.StatusServiceUnavailable},
		{"internal", validBody, 7, createRecurring.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}
			rec := serve(t, uc, tt.body, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestToUseCaseRequest_DefaultsToPerSession(t *testing.T) {
	req := CreateRequest{StartDate: "2024-01-01", EndDate: "2024-01-02"}
	ucReq, err := req.ToUseCaseRequest(1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPerSession), ucReq.PaymentMode)
}
