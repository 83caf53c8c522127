// Package checkout реализует HTTP-обработчик создания сессии оплаты
// премиум-подписки. Возвращает адрес платёжной страницы провайдера.
package checkout

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

// Handler обрабатывает запросы создания сессии оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания сессии оплаты.
type Service interface {
	InitiateCheckout(ctx context.Context, userUID string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создание сессии оплаты подписки
// @Description Создает сессию оплаты у платёжного провайдера и возвращает адрес платёжной страницы.
// @Tags Subscription
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Адрес платёжной страницы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Подписка уже действует"
// @Failure 502 {object} response.ErrorResponse "Платёжный провайдер недоступен"
// @Router /subscription/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.checkout"
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

	url, err := h.service.InitiateCheckout(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, subservice.ErrAlreadyPremium) {
			log.Error("subscription already active")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("subscription is already active"))
			return
		}
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create checkout session"))
		return
	}

	log.Info("checkout session created", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"checkout_url": url,
	}))
}
