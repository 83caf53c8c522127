// Package accountremove реализует HTTP-обработчик удаления собственного
// аккаунта. Вместе с аккаунтом каскадом удаляются брони, отзывы,
// избранное и подписка.
package accountremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
)

// Handler обрабатывает запросы удаления аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления аккаунта.
type Service interface {
	DeleteAccount(ctx context.Context, userUID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление аккаунта
// @Description Удаляет аккаунт текущего пользователя и связанные с ним данные.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Аккаунт удалён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.accountremove"
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

	if err := h.service.DeleteAccount(r.Context(), userUID); err != nil {
		log.Error("failed to delete account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete account"))
		return
	}

	log.Info("account deleted", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
	}))
}
