package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/SMC-DayBooking/internal/api/handlers"
)

// AdminTokenHeader заголовок с токеном администратора
const AdminTokenHeader = "X-Admin-Token"

const (
	msgAdminDisabled = "административные операции отключены"
	msgUnauthorized  = "требуется токен администратора"
)

// AdminAuth пропускает запрос только с верным X-Admin-Token.
// Пустой token в конфигурации отключает административные маршруты.
func AdminAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				handlers.RespondForbidden(w, msgAdminDisabled)
				return
			}

			got := r.Header.Get(AdminTokenHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
