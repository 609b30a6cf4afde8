package preview_recurring_booking

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден или выключен
	ErrCourtNotFound = errors.New("preview_recurring_booking: court not found")

	// ErrTimeSlotNotFound возвращается, когда временной слот не найден или выключен
	ErrTimeSlotNotFound = errors.New("preview_recurring_booking: time slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных или шаблоне
	ErrInvalidInput = errors.New("preview_recurring_booking: invalid input data")

	// ErrTransient возвращается, когда зависимость временно недоступна; запрос можно повторить
	ErrTransient = errors.New("preview_recurring_booking: temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("preview_recurring_booking: internal error")
)
