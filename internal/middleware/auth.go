// Package middleware содержит HTTP middleware для сервиса планирования конвертаций.
package middleware

import (
	"context"
	"net/http"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// UserIDHeader — заголовок, в котором клиент передаёт идентификатор
// демо-пользователя. Реальной аутентификации в сервисе нет.
const UserIDHeader = "X-User-Id"

// Auth сопоставляет запрос демо-пользователю по заголовку X-User-Id.
type Auth struct {
	users    map[string]model.User
	fallback model.User
}

// DefaultUsers возвращает набор демо-пользователей сервиса.
func DefaultUsers() map[string]model.User {
	return map[string]model.User{
		"alice":  {ID: "alice", Name: "Alice", Role: model.RolePlanner},
		"bob":    {ID: "bob", Name: "Bob", Role: model.RoleOwner},
		"viewer": {ID: "viewer", Name: "Viewer", Role: model.RoleViewer},
	}
}

// NewAuth создаёт middleware с указанным набором демо-пользователей.
// Неизвестный или пустой идентификатор разрешается в наблюдателя.
func NewAuth(users map[string]model.User) *Auth {
	fallback := model.User{ID: "viewer", Name: "Viewer", Role: model.RoleViewer}
	if u, ok := users["viewer"]; ok {
		fallback = u
	}

	return &Auth{
		users:    users,
		fallback: fallback,
	}
}

// Users возвращает список демо-пользователей для переключателя ролей.
func (a *Auth) Users() []model.User {
	users := make([]model.User, 0, len(a.users))
	for _, u := range a.users {
		users = append(users, u)
	}
	return users
}

// Middleware добавляет пользователя из заголовка запроса в контекст.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := a.fallback
		if id := r.Header.Get(UserIDHeader); id != "" {
			if u, ok := a.users[id]; ok {
				user = u
			}
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext извлекает демо-пользователя из контекста запроса.
func GetUserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}
