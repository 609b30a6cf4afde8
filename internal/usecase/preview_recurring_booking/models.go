package preview_recurring_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на предпросмотр регулярного бронирования
type Request struct {
	CourtID       int64     // ID корта
	TimeSlotID    int64     // ID временного слота
	DurationHours float64   // Длительность одной игры в часах
	Weekdays      []int     // Дни недели, 0 = воскресенье
	StartDate     time.Time // Первая дата диапазона
	EndDate       time.Time // Последняя дата диапазона (включительно)
	IsMember      bool      // Клиент оплачивает по членскому тарифу
}

// Response модель ответа с расчетом регулярного бронирования
// Ничего не резервирует: до создания группы даты могут занять
type Response struct {
	Summary         string               // Краткое описание для оператора
	CourtID         int64                // ID корта
	CourtName       string               // Название корта
	TimeSlotID      int64                // ID временного слота
	StartTime       types.TimeString     // Начало игры
	EndTime         types.TimeString     // Окончание игры
	DurationHours   float64              // Длительность игры
	IsPeak          bool                 // Слот в пиковые часы
	Dates           []domain.PlannedDate // Доступные даты с ценой
	SkippedDates    []domain.SkippedDate // Пропущенные даты с причиной
	PricePerSession float64              // Цена первой доступной даты
	MixedRates      bool                 // Цены отличаются из-за будних и выходных тарифов
	TotalAmount     float64              // Сумма по всем доступным датам
}
