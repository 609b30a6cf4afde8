package domain

import "time"

// PaymentMethod how a bulk payment was made
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodPromptPay    PaymentMethod = "promptpay"
	MethodCard         PaymentMethod = "card"
)

// IsValid returns true for known payment methods
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodPromptPay, MethodCard:
		return true
	}
	return false
}

// GroupPayment one entry of the bulk payment journal
type GroupPayment struct {
	ID             string // uuid
	GroupID        int64
	Amount         float64
	Method         PaymentMethod
	IdempotencyKey *string
	RecordedBy     int64
	CreatedAt      time.Time
}
