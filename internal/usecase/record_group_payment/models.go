package record_group_payment

// Request модель запроса на регистрацию платежа bulk-группы
type Request struct {
	UserID         int64   // ID оператора
	GroupID        int64   // ID группы
	Amount         float64 // Сумма платежа
	Method         string  // cash, bank_transfer, promptpay, card
	IdempotencyKey *string // Ключ идемпотентности из заголовка Idempotency-Key
}

// Response модель ответа с актуальным балансом группы
type Response struct {
	GroupID         int64   // ID группы
	GroupCode       string  // Код группы
	PaymentID       string  // ID записи журнала, пусто для повторного запроса
	Duplicate       bool    // Платеж с этим ключом уже был учтен
	TotalAmount     float64 // Полная стоимость группы
	PaidAmount      float64 // Оплачено
	RemainingAmount float64 // Остаток к оплате
	PaymentStatus   string  // pending, partial или paid
	Overpaid        bool    // Оплачено больше полной стоимости
}
