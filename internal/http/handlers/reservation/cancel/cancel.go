// Package cancel реализует HTTP-обработчик отмены брони владельцем.
// Отмена доступна не позднее чем за день до даты визита.
package cancel

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
	reservationservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/reservation"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Handler обрабатывает запросы отмены брони.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены брони.
type Service interface {
	Cancel(ctx context.Context, userUID string, id int) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отмена брони
// @Description Отменяет собственную бронь не позднее чем за день до визита.
// @Tags Reservations
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор брони"
// @Success 200 {object} map[string]any "Бронь отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Бронь принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Бронь не найдена"
// @Failure 409 {object} response.ErrorResponse "Окно отмены истекло"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reservations/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.cancel"
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Cancel(r.Context(), userUID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("reservation not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("reservation not found"))
		case errors.Is(err, reservationservice.ErrNotOwner):
			log.Error("reservation belongs to another user", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("reservation belongs to another user"))
		case errors.Is(err, reservationservice.ErrNotCancellable):
			log.Error("cancellation window passed", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("reservation can no longer be cancelled"))
		default:
			log.Error("failed to cancel reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not cancel reservation"))
		}
		return
	}

	log.Info("reservation cancelled", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cancelled": true,
	}))
}
