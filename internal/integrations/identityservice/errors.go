package identityservice

import "errors"

var (
	// ErrIdentityConflict возвращается, когда email уже привязан к аккаунту с другим национальным номером
	ErrIdentityConflict = errors.New("identityservice: identity conflict")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identityservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("identityservice client: invalid response")
)
