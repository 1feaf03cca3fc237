package blackout

import "errors"

// ErrInternal возвращается при ошибке чтения блокировок
var ErrInternal = errors.New("blackout.service: internal error")
