// Package remove реализует HTTP-обработчик удаления заведения из избранного.
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
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Handler обрабатывает запросы удаления из избранного.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики избранного.
type Service interface {
	Remove(ctx context.Context, userUID string, restaurantID int) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление из избранного
// @Description Убирает заведение из избранного текущего пользователя.
// @Tags Favorites
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор заведения"
// @Success 200 {object} map[string]any "Отметка удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Отметка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants/{id}/favorite [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.favorite.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	restaurantID, err := strconv.Atoi(chi.URLParam(r, "id"))
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

	if err := h.service.Remove(r.Context(), userUID, restaurantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("favorite not found", slog.Int("restaurant_id", restaurantID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("favorite not found"))
			return
		}
		log.Error("failed to remove favorite", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove favorite"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
	}))
}
