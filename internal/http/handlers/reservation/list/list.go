// Package list реализует HTTP-обработчик списка броней.
// Пользователь видит собственные брони, администратор — все.
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

// Handler обрабатывает запросы списка броней.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списков броней.
type Service interface {
	ListByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Reservation, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Reservation, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список броней
// @Description Возвращает брони текущего пользователя; администратор видит все брони.
// @Tags Reservations
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы, по умолчанию 20"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список броней"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reservations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
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
	var reservations []*models.Reservation
	var err error
	if role == models.RoleAdmin {
		reservations, err = h.service.ListAll(r.Context(), limit, offset)
	} else {
		reservations, err = h.service.ListByUser(r.Context(), userUID, limit, offset)
	}
	if err != nil {
		log.Error("failed to list reservations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list reservations"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reservations": reservations,
		"count":        len(reservations),
	}))
}
