package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidStatusTransition возвращается при недопустимой смене статуса
	ErrInvalidStatusTransition = errors.New("booking status transition is not allowed")

	// ErrBulkPaymentGroup возвращается при попытке изменить статус оплаты
	// бронирования из группы с оплатой одним платежом
	ErrBulkPaymentGroup = errors.New("payment status is managed by the bulk group payment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
