package record_group_payment

import (
	recordPayment "github.com/m04kA/SMC-CourtBookingService/internal/usecase/record_group_payment"
)

// IdempotencyKeyHeader повтор запроса с тем же ключом не увеличивает оплаченную сумму
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentRequest HTTP request model
type PaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"` // cash | bank_transfer | promptpay | card
}

// PaymentResponse HTTP response model
type PaymentResponse struct {
	GroupID         int64   `json:"groupId"`
	GroupCode       string  `json:"groupCode"`
	PaymentID       string  `json:"paymentId,omitempty"`
	Duplicate       bool    `json:"duplicate"`
	TotalAmount     float64 `json:"totalAmount"`
	PaidAmount      float64 `json:"paidAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	PaymentStatus   string  `json:"paymentStatus"`
	Overpaid        bool    `json:"overpaid"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PaymentRequest) ToUseCaseRequest(userID, groupID int64, idempotencyKey string) *recordPayment.Request {
	req := &recordPayment.Request{
		UserID:  userID,
		GroupID: groupID,
		Amount:  r.Amount,
		Method:  r.Method,
	}
	if idempotencyKey != "" {
		req.IdempotencyKey = &idempotencyKey
	}
	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recordPayment.Response) *PaymentResponse {
	return &PaymentResponse{
		GroupID:         resp.GroupID,
		GroupCode:       resp.GroupCode,
		PaymentID:       resp.PaymentID,
		Duplicate:       resp.Duplicate,
		TotalAmount:     resp.TotalAmount,
		PaidAmount:      resp.PaidAmount,
		RemainingAmount: resp.RemainingAmount,
		PaymentStatus:   resp.PaymentStatus,
		Overpaid:        resp.Overpaid,
	}
}
