// Package profile реализует HTTP-обработчик чтения профиля текущего пользователя.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// Handler обрабатывает запросы чтения профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает данные профиля по JWT.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Данные профиля"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read profile"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":            user.UID,
		"email":          user.Email,
		"role":           user.Role,
		"furigana":       user.Furigana,
		"postal_code":    user.PostalCode,
		"address":        user.Address,
		"phone_number":   user.PhoneNumber,
		"is_premium":     user.IsPremium,
		"email_verified": user.EmailVerified,
		"created_at":     user.CreatedAt,
	}))
}
