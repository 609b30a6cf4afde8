package venueservice

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден в каталоге площадки
	ErrCourtNotFound = errors.New("court not found")

	// ErrTimeSlotNotFound возвращается, когда временной слот не найден
	ErrTimeSlotNotFound = errors.New("time slot not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("venueservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("venueservice client: invalid response")

	// ErrUnavailable возвращается, когда сервис каталога недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("venueservice client: service unavailable")
)
