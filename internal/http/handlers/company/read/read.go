// Package read реализует HTTP-обработчик чтения сведений о компании.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

// Handler обрабатывает запросы чтения сведений о компании.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сведений о компании.
type Service interface {
	Read(ctx context.Context) (*models.CompanyInfo, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сведения о компании
// @Description Возвращает публичные сведения об операторе сервиса.
// @Tags Company
// @Produce  json
// @Success 200 {object} map[string]any "Сведения о компании"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /company [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	info, err := h.service.Read(r.Context())
	if err != nil {
		log.Error("failed to read company info", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read company info"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"company_name":     info.CompanyName,
		"address":          info.Address,
		"phone":            info.Phone,
		"email":            info.Email,
		"business_hours":   info.BusinessHours,
		"established":      info.Established,
		"capital":          info.Capital,
		"representative":   info.Representative,
		"business_content": info.BusinessContent,
		"updated_at":       info.UpdatedAt,
	}))
}
