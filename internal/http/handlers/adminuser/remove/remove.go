// Package remove реализует HTTP-обработчик удаления пользователя администратором.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	authservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/auth"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Handler обрабатывает запросы удаления пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	AdminDeleteUser(ctx context.Context, actingUID, targetUID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Description Удаляет учетную запись пользователя. Администратор не может удалить самого себя.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь удален"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Нельзя удалить собственную учетную запись"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminuser.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actingUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || actingUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	targetUID := chi.URLParam(r, "uid")
	if targetUID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("user uid is required"))
		return
	}

	err := h.service.AdminDeleteUser(r.Context(), actingUID, targetUID)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrSelfDelete):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("cannot delete own account"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to delete user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete user"))
		}
		return
	}

	log.Info("user removed by admin", slog.String("target_uid", targetUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
	}))
}
