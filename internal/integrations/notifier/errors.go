package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrRejected возвращается, когда получатель ответил не 2xx
	ErrRejected = errors.New("notifier client: webhook rejected")
)
