// Package create реализует HTTP-обработчик создания отзыва о заведении.
// На пару пользователь-заведение допускается не более одного отзыва.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	reviewservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/review"
)

// Handler обрабатывает запросы создания отзыва.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания отзыва.
type Service interface {
	Create(ctx context.Context, userUID string, restaurantID int, req models.ReviewRequest) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создание отзыва
// @Description Создает отзыв с оценкой от 1 до 5. Повторный отзыв о том же заведении отклоняется.
// @Tags Reviews
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор заведения"
// @Param request body models.ReviewRequest true "Оценка и текст отзыва"
// @Success 200 {object} map[string]any "Отзыв создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заведение не найдено"
// @Failure 409 {object} response.ErrorResponse "Отзыв уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants/{id}/reviews [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.create"
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

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, restaurantID, req)
	if err != nil {
		switch {
		case errors.Is(err, reviewservice.ErrRestaurantNotFound):
			log.Error("restaurant not found", slog.Int("restaurant_id", restaurantID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("restaurant not found"))
		case errors.Is(err, reviewservice.ErrDuplicateReview):
			log.Error("duplicate review")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("review for this restaurant already exists"))
		default:
			log.Error("failed to create review", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create review"))
		}
		return
	}

	log.Info("review created", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"review_id": id,
	}))
}
