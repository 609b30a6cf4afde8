package create_recurring_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Request модель запроса на создание регулярного бронирования
type Request struct {
	UserID        int64                   // ID оператора
	CourtID       int64                   // ID корта
	TimeSlotID    int64                   // ID временного слота
	DurationHours float64                 // Длительность одной игры в часах
	Weekdays      []int                   // Дни недели, 0 = воскресенье
	StartDate     time.Time               // Первая дата диапазона
	EndDate       time.Time               // Последняя дата диапазона (включительно)
	Customer      domain.CustomerSnapshot // Данные клиента на момент создания
	PaymentMode   string                  // per_session или bulk
	Notes         *string                 // Заметки оператора (опционально)
}

// Response модель ответа с созданной группой
type Response struct {
	GroupID         int64                // ID группы
	GroupCode       string               // Код группы, например RB-20231220-00001
	Message         string               // Сообщение для оператора
	PaymentMode     string               // Режим оплаты
	TotalBookings   int                  // Количество созданных бронирований
	SkippedDates    []domain.SkippedDate // Даты, которые не удалось забронировать
	PricePerSession float64              // Цена первой игры
	TotalAmount     float64              // Сумма всех игр
}
