// Package remove реализует HTTP-обработчик удаления отзыва.
// Пользователь удаляет только собственный отзыв, администратор — любой.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	reviewservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/review"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Handler обрабатывает запросы удаления отзыва.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления отзыва.
type Service interface {
	Remove(ctx context.Context, userUID string, id int) error
	AdminRemove(ctx context.Context, id int) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление отзыва
// @Description Удаляет собственный отзыв; администратор может удалить любой отзыв.
// @Tags Reviews
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор отзыва"
// @Success 200 {object} map[string]any "Отзыв удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Отзыв принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Отзыв не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reviews/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role == models.RoleAdmin {
		err = h.service.AdminRemove(r.Context(), id)
	} else {
		err = h.service.Remove(r.Context(), userUID, id)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("review not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("review not found"))
		case errors.Is(err, reviewservice.ErrNotAuthor):
			log.Error("review belongs to another user", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("review belongs to another user"))
		default:
			log.Error("failed to delete review", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete review"))
		}
		return
	}

	log.Info("review deleted", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
	}))
}
