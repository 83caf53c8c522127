// Package remove реализует HTTP-обработчик удаления категории кухни.
//
// Категория, на которую ссылаются заведения, удаляется только с флагом
// force=true: заведения при этом остаются без категории. Без флага
// возвращается отказ с числом зависимых заведений.
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

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	categoryservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/category"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Handler обрабатывает запросы удаления категории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления категории.
type Service interface {
	Remove(ctx context.Context, id int, force bool) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление категории
// @Description Удаляет категорию кухни. Используемая категория удаляется только с force=true.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор категории"
// @Param force query bool false "Принудительное удаление используемой категории"
// @Success 200 {object} map[string]any "Категория удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Категория не найдена"
// @Failure 409 {object} response.ErrorResponse "Категория используется заведениями"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/categories/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.remove"
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

	force := r.URL.Query().Get("force") == "true"

	if err := h.service.Remove(r.Context(), id, force); err != nil {
		var inUseErr *categoryservice.CategoryInUseError
		switch {
		case errors.As(err, &inUseErr):
			log.Error("category in use", slog.Int("id", id), slog.Int("count", inUseErr.Count))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(inUseErr.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("category not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("category not found"))
		default:
			log.Error("failed to delete category", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete category"))
		}
		return
	}

	log.Info("category deleted", slog.Int("id", id), slog.Bool("force", force))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
	}))
}
