// Package premium реализует HTTP-обработчик административного
// переопределения флага платной подписки пользователя.
package premium

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
	authservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/auth"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// Handler обрабатывает запросы переопределения премиум-флага.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики переопределения премиум-флага.
type Service interface {
	AdminSetPremium(ctx context.Context, actingUID, targetUID string, isPremium bool) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переопределить премиум-флаг пользователя
// @Description Выставляет или снимает флаг платной подписки в обход провайдера. Администратор не может менять собственный флаг.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID пользователя"
// @Param request body models.PremiumOverrideRequest true "Новое значение флага"
// @Success 200 {object} response.Response "Флаг обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Нельзя изменить собственную учетную запись"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{uid}/premium [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminuser.premium"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actingUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || actingUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	targetUID := chi.URLParam(r, "uid")
	if targetUID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("user uid is required"))
		return
	}

	var req models.PremiumOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	err := h.service.AdminSetPremium(r.Context(), actingUID, targetUID, req.IsPremium)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrSelfUpdate):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("cannot change own account"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to override premium flag", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update user"))
		}
		return
	}

	log.Info("premium flag overridden by admin",
		slog.String("target_uid", targetUID), slog.Bool("is_premium", req.IsPremium))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"is_premium": req.IsPremium,
	}))
}
