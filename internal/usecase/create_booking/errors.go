package create_booking

import "errors"

var (
	// ErrCodesExhausted возвращается, когда все попытки сгенерировать свободный код закончились коллизией
	ErrCodesExhausted = errors.New("create_booking: validation code attempts exhausted")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
