// Package read реализует HTTP-обработчик чтения карточки заведения.
package read

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
	restaurantservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/restaurant"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Handler обрабатывает запросы чтения карточки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения карточки.
type Service interface {
	Read(ctx context.Context, id int, includeHidden bool) (*models.Restaurant, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка заведения
// @Description Возвращает карточку заведения со средней оценкой и числом отзывов.
// @Tags Restaurants
// @Produce  json
// @Param id path int true "Идентификатор заведения"
// @Success 200 {object} map[string]any "Карточка заведения"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Заведение не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.read"
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

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	includeHidden := role == models.RoleAdmin

	restaurant, err := h.service.Read(r.Context(), id, includeHidden)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, restaurantservice.ErrHidden) {
			log.Error("restaurant not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("restaurant not found"))
			return
		}
		log.Error("failed to read restaurant", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read restaurant"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"restaurant": restaurant,
	}))
}
