package capacity

import "errors"

// ErrInternal возвращается при ошибке чтения счетчиков
var ErrInternal = errors.New("capacity.service: internal error")
