// Package resendverification реализует HTTP-обработчик повторной отправки
// письма подтверждения почты.
package resendverification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
)

// Request — структура входных данных для повторной отправки письма.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Handler обрабатывает запросы повторной отправки письма подтверждения.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики повторной отправки.
type Service interface {
	ResendVerification(ctx context.Context, email string) error
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
// @Summary Повторная отправка письма подтверждения
// @Description Выпускает новый токен подтверждения, гася прежние. Ответ не раскрывает, зарегистрирована ли почта.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Почта пользователя"
// @Success 200 {object} map[string]any "Письмо отправлено, если почта зарегистрирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/resend-verification [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resendverification"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		log.Error("failed to resend verification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resend verification email"))
		return
	}

	log.Info("verification email resent")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sent": true,
	}))
}
