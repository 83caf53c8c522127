// Package add реализует HTTP-обработчик добавления заведения в избранное.
// Повторное добавление не ошибка: состояние не меняется.
package add

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
	favoriteservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/favorite"
)

// Handler обрабатывает запросы добавления в избранное.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики избранного.
type Service interface {
	Add(ctx context.Context, userUID string, restaurantID int) (bool, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавление в избранное
// @Description Добавляет заведение в избранное. Повторное добавление идемпотентно.
// @Tags Favorites
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор заведения"
// @Success 200 {object} map[string]any "Отметка добавлена или уже существовала"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заведение не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants/{id}/favorite [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.favorite.add"
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

	created, err := h.service.Add(r.Context(), userUID, restaurantID)
	if err != nil {
		if errors.Is(err, favoriteservice.ErrRestaurantNotFound) {
			log.Error("restaurant not found", slog.Int("restaurant_id", restaurantID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("restaurant not found"))
			return
		}
		log.Error("failed to add favorite", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add favorite"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"created": created,
	}))
}
