// Package list реализует HTTP-обработчик списка отзывов заведения.
// Обычные пользователи видят только публичные отзывы, администратор — все.
package list

import (
	"context"
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
)

// Handler обрабатывает запросы списка отзывов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка отзывов.
type Service interface {
	ListByRestaurant(ctx context.Context, restaurantID int, includeHidden bool, limit, offset int) ([]*models.Review, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отзывы заведения
// @Description Возвращает публичные отзывы заведения, новые первыми.
// @Tags Reviews
// @Produce  json
// @Param id path int true "Идентификатор заведения"
// @Param limit query int false "Размер страницы, по умолчанию 20"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список отзывов"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants/{id}/reviews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.list"
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

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	includeHidden := role == models.RoleAdmin

	reviews, err := h.service.ListByRestaurant(r.Context(), restaurantID, includeHidden, limit, offset)
	if err != nil {
		log.Error("failed to list reviews", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list reviews"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reviews": reviews,
		"count":   len(reviews),
	}))
}
