package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// UserReader описывает чтение пользователя для проверки премиум-статуса.
type UserReader interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// PremiumMiddleware пропускает только пользователей с действующей платной
// подпиской. Флаг is_premium читается из базы на каждый запрос, а не из
// токена: отмена или просрочка подписки закрывает доступ без перевыпуска JWT.
// При allowAdmin администратор проходит без подписки.
func PremiumMiddleware(users UserReader, allowAdmin bool, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.PremiumMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if allowAdmin {
				if role, _ := r.Context().Value(Role).(string); role == models.RoleAdmin {
					next.ServeHTTP(w, r)
					return
				}
			}

			user, err := users.GetUser(r.Context(), userUID)
			if err != nil {
				// Токен может пережить удаление аккаунта.
				if errors.Is(err, repository.ErrNotFound) {
					log.Warn("user from token no longer exists", slog.String("user_uid", userUID))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("user identification missing"))
					return
				}
				log.Error("failed to get user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !user.IsPremium {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("premium subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func contextWith(ctx context.Context, key Key, value string) context.Context {
	return context.WithValue(ctx, key, value)
}
