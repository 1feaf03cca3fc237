package interval

import "errors"

// ErrInternal возвращается при ошибке поиска записей
var ErrInternal = errors.New("interval.service: internal error")
