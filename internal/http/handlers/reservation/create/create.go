// Package create реализует HTTP-обработчик создания брони столика.
//
// Handler валидирует данные брони, проверяет ограничения даты, времени
// и размера группы через сервис бронирования и возвращает созданную бронь.
// Нарушение ограничения конкретного поля возвращается с его названием.
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
	reservationservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/reservation"
)

// Handler обрабатывает запросы создания брони.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания брони.
type Service interface {
	Create(ctx context.Context, userUID string, restaurantID int, req models.ReservationRequest) (*models.Reservation, error)
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
// @Summary Создание брони столика
// @Description Создает бронь со статусом pending. Дата не дальше 90 дней, время с 11:00 до 22:00, группа от 1 до 10 человек.
// @Tags Reservations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор заведения"
// @Param request body models.ReservationRequest true "Данные брони"
// @Success 200 {object} map[string]any "Бронь создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заведение не найдено"
// @Failure 409 {object} response.ErrorResponse "Слот уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /restaurants/{id}/reservations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.create"
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

	var req models.ReservationRequest
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

	reservation, err := h.service.Create(r.Context(), userUID, restaurantID, req)
	if err != nil {
		var fieldErr *reservationservice.FieldError
		switch {
		case errors.As(err, &fieldErr):
			log.Error("reservation constraint violated", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(fieldErr.Error()))
		case errors.Is(err, reservationservice.ErrRestaurantNotFound):
			log.Error("restaurant not found", slog.Int("restaurant_id", restaurantID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("restaurant not found"))
		case errors.Is(err, reservationservice.ErrReservationTaken):
			log.Error("reservation slot taken")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("reservation slot is already taken"))
		default:
			log.Error("failed to create reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create reservation"))
		}
		return
	}

	log.Info("reservation created", slog.Int("id", reservation.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservation": reservation,
	}))
}
