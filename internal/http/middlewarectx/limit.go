package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/nagoyameshi/nagoyameshi-api/internal/http/response"
)

// Общий ограничитель на авторизованные запросы: 5 запросов в секунду
// с всплеском до 10.
var limiter = rate.NewLimiter(5, 10)

// RateLimitMiddleware отклоняет запросы сверх лимита со статусом 429.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
