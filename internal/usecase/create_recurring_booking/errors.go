package create_recurring_booking

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден или выключен
	ErrCourtNotFound = errors.New("create_recurring_booking: court not found")

	// ErrTimeSlotNotFound возвращается, когда временной слот не найден или выключен
	ErrTimeSlotNotFound = errors.New("create_recurring_booking: time slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных или шаблоне
	ErrInvalidInput = errors.New("create_recurring_booking: invalid input data")

	// ErrNoValidDates возвращается, когда при повторной проверке не осталось ни одной доступной даты
	// Ничего не записывается, клиенту нужно заново выполнить предпросмотр
	ErrNoValidDates = errors.New("create_recurring_booking: no valid dates left to book")

	// ErrTransient возвращается при таймауте, исчерпании повторов транзакции или недоступности зависимостей
	// Создание атомарно, поэтому запрос можно безопасно повторить
	ErrTransient = errors.New("create_recurring_booking: temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_recurring_booking: internal error")
)
