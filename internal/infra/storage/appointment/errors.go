package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrCodeCollision возвращается, когда код подтверждения уже занят; вызывающий генерирует новый
	ErrCodeCollision = errors.New("appointment.repository: validation code collision")

	// ErrLockOutsideTx возвращается при запросе блокирующего чтения вне транзакции
	ErrLockOutsideTx = errors.New("appointment.repository: locking read requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
