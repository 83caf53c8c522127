// Package create реализует HTTP-обработчик создания карточки заведения.
//
// Карточка, созданная премиум-пользователем, остаётся скрытой до одобрения
// администратором; карточка администратора публикуется сразу.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	restaurantservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/restaurant"
)

// Handler обрабатывает запросы создания карточки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания карточки.
type Service interface {
	Create(ctx context.Context, req models.RestaurantRequest, publish bool) (int, error)
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
// @Summary Создание карточки заведения
// @Description Создает карточку заведения. Карточки премиум-пользователей ожидают одобрения администратора.
// @Tags Restaurants
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.RestaurantRequest true "Данные карточки"
// @Success 200 {object} map[string]any "Карточка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RestaurantRequest
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

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	publish := role == models.RoleAdmin

	id, err := h.service.Create(r.Context(), req, publish)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrBudgetRange) {
			log.Error("invalid budget range")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("budget_min must not exceed budget_max"))
			return
		}
		log.Error("failed to create restaurant", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create restaurant"))
		return
	}

	log.Info("restaurant created", slog.Int("id", id), slog.Bool("published", publish))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"restaurant_id": id,
		"published":     publish,
	}))
}
