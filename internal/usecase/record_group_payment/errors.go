package record_group_payment

import "errors"

var (
	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("group not found")

	// ErrNotBulkGroup возвращается для групп с посессионной оплатой
	ErrNotBulkGroup = errors.New("group is not in bulk payment mode")

	// ErrGroupCancelled возвращается при оплате отмененной группы
	ErrGroupCancelled = errors.New("group is cancelled")

	// ErrInvalidInput возвращается при невалидных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransient возвращается, когда запрос можно повторить позже
	ErrTransient = errors.New("temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
