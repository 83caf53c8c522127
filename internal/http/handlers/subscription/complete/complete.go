// Package complete реализует HTTP-обработчик подтверждения оплаты после
// возврата с платёжной страницы провайдера. Подписка и флаг is_premium
// применяются одной транзакцией; повторный вызов безопасен.
package complete

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
	subservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/subscription"
)

// Handler обрабатывает запросы подтверждения оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	CompleteCheckout(ctx context.Context, userUID, sessionID string) (*models.Subscription, error)
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
// @Summary Подтверждение оплаты подписки
// @Description Сверяет сессию оплаты с провайдером и активирует премиум-подписку.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CompleteCheckoutRequest true "Идентификатор сессии оплаты"
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Сессия не оплачена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.complete"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CompleteCheckoutRequest
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

	sub, err := h.service.CompleteCheckout(r.Context(), userUID, req.SessionID)
	if err != nil {
		if errors.Is(err, subservice.ErrCheckoutIncomplete) {
			log.Error("checkout session not paid")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("checkout session is not completed"))
			return
		}
		log.Error("failed to complete checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not complete checkout"))
		return
	}

	log.Info("checkout completed", slog.String("user_uid", userUID), slog.Int("subscription_id", sub.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription_id":    sub.ID,
		"status":             sub.Status,
		"current_period_end": sub.CurrentPeriodEnd,
	}))
}
