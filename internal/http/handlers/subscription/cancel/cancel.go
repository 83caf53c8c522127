// Package cancel реализует HTTP-обработчик отмены премиум-подписки.
// Отмена происходит в конце оплаченного периода, доступ сохраняется
// до его истечения.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	subservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/subscription"
)

// Handler обрабатывает запросы отмены подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, userUID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отмена подписки
// @Description Запрашивает у провайдера отмену в конце оплаченного периода.
// @Tags Subscription
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Отмена запрошена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 409 {object} response.ErrorResponse "Подписка не действует"
// @Failure 502 {object} response.ErrorResponse "Платёжный провайдер недоступен"
// @Router /subscription/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
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

	if err := h.service.Cancel(r.Context(), userUID); err != nil {
		switch {
		case errors.Is(err, subservice.ErrNoSubscription):
			log.Error("subscription not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		case errors.Is(err, subservice.ErrNotPremium):
			log.Error("subscription is not active")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("subscription is not active"))
		default:
			log.Error("failed to cancel subscription", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not cancel subscription"))
		}
		return
	}

	log.Info("subscription cancellation requested", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cancelled_at_period_end": true,
	}))
}
