// Package list реализует HTTP-обработчик поиска по каталогу заведений.
//
// Поддерживаются фильтры по подстроке в названии или описании, категории
// и верхней границе бюджета, а также пагинация. Неопубликованные карточки
// видит только администратор.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// Handler обрабатывает запросы поиска по каталогу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, filter models.RestaurantFilter, includeHidden bool) ([]*models.Restaurant, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск по каталогу заведений
// @Description Возвращает страницу каталога по фильтрам: подстрока, категория, бюджет.
// @Tags Restaurants
// @Produce  json
// @Param keyword query string false "Подстрока в названии или описании"
// @Param category_id query int false "Фильтр по категории"
// @Param budget_max query int false "Верхняя граница бюджета"
// @Param limit query int false "Размер страницы, по умолчанию 20"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Страница каталога"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.RestaurantFilter{
		Keyword: query.Get("keyword"),
		Limit:   20,
	}
	if v, err := strconv.Atoi(query.Get("category_id")); err == nil && v > 0 {
		filter.CategoryID = v
	}
	if v, err := strconv.Atoi(query.Get("budget_max")); err == nil && v > 0 {
		filter.BudgetMax = v
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 && v <= 100 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(query.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	includeHidden := role == models.RoleAdmin

	restaurants, err := h.service.List(r.Context(), filter, includeHidden)
	if err != nil {
		log.Error("failed to list restaurants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list restaurants"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"restaurants": restaurants,
		"count":       len(restaurants),
	}))
}
