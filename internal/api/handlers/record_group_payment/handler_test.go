package record_group_payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	recordPayment "github.com/m04kA/SMC-CourtBookingService/internal/usecase/record_group_payment"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type stubUseCase struct {
	got *recordPayment.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *recordPayment.Request) (*recordPayment.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &recordPayment.Response{GroupID: req.GroupID, PaidAmount: req.Amount, TotalAmount: 600, PaymentStatus: "partial"}, nil
}

func newRouter(uc *stubUseCase) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/recurring-bookings/{groupId}/payment", NewHandler(uc, logger.Nop{}).Handle).Methods(http.MethodPatch)
	return r
}

func TestHandle_PassesIdempotencyKey(t *testing.T) {
	uc := &stubUseCase{}

	req := httptest.NewRequest(http.MethodPatch, "/recurring-bookings/12/payment",
		strings.NewReader(`{"amount":300,"method":"promptpay"}`))
	req.Header.Set(middleware.UserIDHeader, "7")
	req.Header.Set(IdempotencyKeyHeader, "pay-1")
	rec := httptest.NewRecorder()

	newRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(12), uc.got.GroupID)
	assert.Equal(t, int64(7), uc.got.UserID)
	require.NotNil(t, uc.got.IdempotencyKey)
	assert.Equal(t, "pay-1", *uc.got.IdempotencyKey)
	assert.Contains(t, rec.Body.String(), `"paymentStatus":"partial"`)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"bad group id", "/recurring-bookings/abc/payment", nil, http.StatusBadRequest},
		{"invalid input", "/recurring-bookings/1/payment", recordPayment.ErrInvalidInput, http.StatusBadRequest},
		{"not found", "/recurring-bookings/1/payment", recordPayment.ErrGroupNotFound, http.StatusNotFound},
		{"not bulk", "/recurring-bookings/1/payment", recordPayment.ErrNotBulkGroup, http.StatusConflict},
		{"cancelled", "/recurring-bookings/1/payment", recordPayment.ErrGroupCancelled, http.StatusConflict},
		{"transient", "/recurring-bookings/1/payment", recordPayment.ErrTransient, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}
			req := httptest.NewRequest(http.MethodPatch, tt.path, strings.NewReader(`{"amount":1,"method":"cash"}`))
			req.Header.Set(middleware.UserIDHeader, "7")
			rec := httptest.NewRecorder()

			newRouter(uc).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
