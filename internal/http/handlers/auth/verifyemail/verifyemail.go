// Package verifyemail реализует HTTP-обработчик подтверждения почты
// по одноразовой ссылке из письма.
package verifyemail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	authservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/auth"
)

// Handler обрабатывает переходы по ссылке подтверждения почты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения почты.
type Service interface {
	VerifyEmail(ctx context.Context, token string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтверждение почты
// @Description Гасит одноразовый токен из письма и помечает почту подтверждённой.
// @Tags Auth
// @Produce  json
// @Param token query string true "Токен подтверждения"
// @Success 200 {object} map[string]any "Почта подтверждена"
// @Failure 400 {object} response.ErrorResponse "Токен отсутствует"
// @Failure 410 {object} response.ErrorResponse "Токен просрочен"
// @Failure 422 {object} response.ErrorResponse "Токен не найден или уже погашен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/verify [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyemail"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("verification token missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("verification token is required"))
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, authservice.ErrTokenExpired):
			log.Error("verification token expired")
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("verification token has expired"))
		case errors.Is(err, authservice.ErrTokenInvalid):
			log.Error("verification token invalid")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("verification token is invalid"))
		default:
			log.Error("failed to verify email", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify email"))
		}
		return
	}

	log.Info("email verified")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"verified": true,
	}))
}
