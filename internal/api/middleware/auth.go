package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Заголовки, которые выставляет API gateway после аутентификации
const (
	HeaderUserID          = "X-User-ID"
	HeaderUserRoles       = "X-User-Roles"
	HeaderUserPermissions = "X-User-Permissions"
	HeaderForwardedFor    = "X-Forwarded-For"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
)

var errInvalidUserID = errors.New("middleware: invalid user id header")

type contextKey string

const actorKey contextKey = "actor"

// OptionalAuth извлекает контекст вызывающего, если заголовок X-User-ID передан
// Без заголовка запрос идет дальше как гостевой
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, present, err := actorFromRequest(r)
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}
		if !present {
			actor = domain.Actor{IP: clientIP(r)}
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// Auth требует аутентифицированного пользователя
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, present, err := actorFromRequest(r)
		if !present {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if err != nil {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor кладет контекст вызывающего в context
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor возвращает контекст вызывающего (гость, если middleware не выполнялся)
func GetActor(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey).(domain.Actor)
	return actor
}

// GetUserID возвращает ID аутентифицированного пользователя
func GetUserID(ctx context.Context) (int64, bool) {
	actor := GetActor(ctx)
	return actor.AccountID, actor.IsAuthenticated()
}

func actorFromRequest(r *http.Request) (domain.Actor, bool, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		return domain.Actor{}, false, nil
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Actor{}, true, errInvalidUserID
	}

	perms := splitList(r.Header.Get(HeaderUserPermissions))
	actor := domain.Actor{
		AccountID:   userID,
		Roles:       splitList(r.Header.Get(HeaderUserRoles)),
		Permissions: make([]domain.Permission, 0, len(perms)),
		IP:          clientIP(r),
	}
	for _, p := range perms {
		actor.Permissions = append(actor.Permissions, domain.Permission(p))
	}
	return actor, true, nil
}

func splitList(header string) []string {
	result := make([]string, 0)
	for _, part := range strings.Split(header, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// clientIP первый адрес из X-Forwarded-For, иначе адрес соединения
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
