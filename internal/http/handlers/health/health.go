// Package health реализует HTTP-обработчик проверки работоспособности сервиса.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
)

// Handler отвечает на запросы проверки работоспособности.
type Handler struct{}

// New создает новый Handler.
func New() *Handler {
	return &Handler{}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Description Возвращает статус сервиса.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Сервис работает"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "healthy",
	}))
}
