package cancel_appointment

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("cancel_appointment: internal error")
