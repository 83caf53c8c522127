// Package list реализует HTTP-обработчик списка пользователей
// для административного раздела.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// Handler обрабатывает запросы списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// userView — представление пользователя без хэша пароля.
type userView struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	IsPremium     bool   `json:"is_premium"`
	EmailVerified bool   `json:"email_verified"`
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает пользователей с пагинацией для административного раздела.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы, по умолчанию 20"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список пользователей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminuser.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			UID:           u.UID,
			Email:         u.Email,
			Role:          u.Role,
			IsPremium:     u.IsPremium,
			EmailVerified: u.EmailVerified,
		})
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": views,
		"count": len(views),
	}))
}
