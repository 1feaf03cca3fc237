package domain

import "strconv"

// Permission право, выданное аккаунту
type Permission string

const (
	PermBookAppointments      Permission = "book_appointments"
	PermCancelOwnAppointments Permission = "cancel_own_appointments"
	// PermManageAppointments повышенное право: обходит все проверки авторизации
	PermManageAppointments Permission = "manage_appointments"
)

// GuestActor ссылка на неаутентифицированного владельца токена подтверждения
const GuestActor = "guest"

// Actor контекст вызывающего, извлеченный на HTTP-границе
type Actor struct {
	AccountID   int64 // 0 = не аутентифицирован
	Roles       []string
	Permissions []Permission
	IP          string
}

// IsAuthenticated возвращает true, если запрос пришёл от аккаунта
func (a Actor) IsAuthenticated() bool {
	return a.AccountID > 0
}

// Can проверяет наличие права
func (a Actor) Can(p Permission) bool {
	for _, perm := range a.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// IsElevated возвращает true для администратора
func (a Actor) IsElevated() bool {
	return a.IsAuthenticated() && a.Can(PermManageAppointments)
}

// Ref строковая ссылка на автора изменения для аудита
func (a Actor) Ref() string {
	if !a.IsAuthenticated() {
		return GuestActor
	}
	if a.IsElevated() {
		return "admin:" + strconv.FormatInt(a.AccountID, 10)
	}
	return "account:" + strconv.FormatInt(a.AccountID, 10)
}
