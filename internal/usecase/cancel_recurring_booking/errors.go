package cancel_recurring_booking

import "errors"

var (
	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("group not found")

	// ErrCannotCancel возвращается при отмене завершенной группы
	ErrCannotCancel = errors.New("completed group cannot be cancelled")

	// ErrInvalidInput возвращается при невалидных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransient возвращается, когда запрос можно повторить позже
	ErrTransient = errors.New("temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
