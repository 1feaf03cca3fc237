package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	CalendarID int64
	Date       string // YYYY-MM-DD
}

// Response модель ответа со списком доступных слотов
type Response struct {
	CalendarID      int64
	Date            time.Time // Дата, на которую запрашивались слоты
	Timezone        string    // Часовой пояс, в котором указано время слотов
	DurationMinutes int
	Slots           []domain.AvailableSlot // Только слоты со свободными местами, по возрастанию времени
}
