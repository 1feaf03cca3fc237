package validation

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Input данные для проверки записи
type Input struct {
	Calendar *domain.CalendarPolicy
	Date     string // YYYY-MM-DD
	Time     string // HH:MM или HH:MM:SS

	Actor      domain.Actor
	Email      string
	NationalID string          // как ввел пользователь, до нормализации
	Identity   domain.Identity // для ограничителя интервала

	// Locked включает блокирующее чтение счетчиков (только внутри транзакции)
	Locked bool
}

// Result разобранные и проверенные дата и время
type Result struct {
	Date       time.Time // полночь UTC
	StartTime  types.TimeString
	EndTime    types.TimeString
	StartsAt   time.Time // в часовом поясе календаря
	NationalID string    // только цифры, пусто если не передан
}
