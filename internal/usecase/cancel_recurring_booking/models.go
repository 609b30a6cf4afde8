package cancel_recurring_booking

// Request модель запроса на отмену регулярного бронирования
type Request struct {
	UserID  int64 // ID оператора
	GroupID int64 // ID группы
}

// Response модель ответа с итоговыми счетчиками группы
type Response struct {
	GroupID           int64  // ID группы
	GroupCode         string // Код группы
	Message           string // Сообщение для оператора
	AlreadyCancelled  bool   // Группа была отменена ранее, ничего не изменилось
	CancelledBookings int64  // Бронирования, отмененные этим запросом
	TotalBookings     int    // Всего бронирований в группе
	CompletedBookings int    // Завершенные бронирования
	CancelledTotal    int    // Все отмененные бронирования группы
	ActiveBookings    int    // Бронирования, которые остались в силе
}
