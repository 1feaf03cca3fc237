package identityservice

// Profile данные, с которыми создается аккаунт, если он еще не существует
type Profile struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ResolveRequest тело запроса на поиск или создание аккаунта
type ResolveRequest struct {
	NationalIDHash string  `json:"national_id_hash"`
	Email          string  `json:"email"`
	Profile        Profile `json:"profile"`
}

// ResolveResponse ответ сервиса аккаунтов
type ResolveResponse struct {
	AccountID int64 `json:"account_id"`
	Created   bool  `json:"created"`
}

// ErrorResponse модель ошибки от сервиса аккаунтов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
