package nagoyameshi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminuserlist "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/adminuser/list"
	adminuserpremium "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/adminuser/premium"
	adminuserremove "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/adminuser/remove"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/auth/accountremove"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/auth/login"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/auth/profile"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/auth/profileupdate"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/auth/register"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/auth/resendverification"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/auth/verifyemail"
	categorycreate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/category/create"
	categorylist "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/category/list"
	categoryremove "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/category/remove"
	categoryupdate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/category/update"
	companyread "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/company/read"
	companyupdate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/company/update"
	favoriteadd "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/favorite/add"
	favoritelist "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/favorite/list"
	favoriteremove "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/favorite/remove"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/health"
	reservationadminremove "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/reservation/adminremove"
	reservationadminstatus "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/reservation/adminstatus"
	reservationcancel "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/reservation/cancel"
	reservationcreate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/reservation/create"
	reservationlist "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/reservation/list"
	restaurantcreate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/restaurant/create"
	restaurantlist "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/restaurant/list"
	restaurantmoderate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/restaurant/moderate"
	restaurantread "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/restaurant/read"
	restaurantremove "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/restaurant/remove"
	restaurantupdate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/restaurant/update"
	reviewcreate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/review/create"
	reviewlist "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/review/list"
	reviewremove "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/review/remove"
	reviewupdate "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/review/update"
	reviewvisibility "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/review/visibility"
	subscriptioncancel "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/subscription/cancel"
	subscriptioncheckout "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/subscription/checkout"
	subscriptioncomplete "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/subscription/complete"
	subscriptiondetail "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/subscription/detail"
	subscriptionupdatecard "github.com/nagoyameshi/nagoyameshi-api/internal/http/handlers/subscription/updatecard"
	"github.com/nagoyameshi/nagoyameshi-api/internal/http/middlewarectx"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/jwt"
	authservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/auth"
	categoryservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/category"
	companyservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/company"
	favoriteservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/favorite"
	reservationservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/reservation"
	restaurantservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/restaurant"
	reviewservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/review"
	subservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/subscription"
)

// HandlersDeps объединяет сервисы, необходимые HTTP-обработчикам.
type HandlersDeps struct {
	Auth         *authservice.AuthService
	Subscription *subservice.SubscriptionService
	Restaurant   *restaurantservice.RestaurantService
	Reservation  *reservationservice.ReservationService
	Review       *reviewservice.ReviewService
	Favorite     *favoriteservice.FavoriteService
	Category     *categoryservice.CategoryService
	Company      *companyservice.CompanyService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	users middlewarectx.UserReader, deps *HandlersDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New().ServeHTTP)
		r.Post("/auth/register", register.New(logger, deps.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, deps.Auth).ServeHTTP)
		r.Get("/auth/verify", verifyemail.New(logger, deps.Auth).ServeHTTP)
		r.Post("/auth/resend-verification", resendverification.New(logger, deps.Auth).ServeHTTP)
		r.Get("/restaurants", restaurantlist.New(logger, deps.Restaurant).ServeHTTP)
		r.Get("/restaurants/{id}", restaurantread.New(logger, deps.Restaurant).ServeHTTP)
		r.Get("/restaurants/{id}/reviews", reviewlist.New(logger, deps.Review).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, deps.Category).ServeHTTP)
		r.Get("/company", companyread.New(logger, deps.Company).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profile.New(logger, deps.Auth).ServeHTTP)
			r.Patch("/profile", profileupdate.New(logger, deps.Auth).ServeHTTP)
			r.Delete("/profile", accountremove.New(logger, deps.Auth).ServeHTTP)
			r.Post("/subscription/checkout", subscriptioncheckout.New(logger, deps.Subscription).ServeHTTP)
			r.Post("/subscription/complete", subscriptioncomplete.New(logger, deps.Subscription).ServeHTTP)

			// Конечные точки держателей действующей подписки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumMiddleware(users, false, logger))
				r.Get("/subscription", subscriptiondetail.New(logger, deps.Subscription).ServeHTTP)
				r.Post("/subscription/cancel", subscriptioncancel.New(logger, deps.Subscription).ServeHTTP)
				r.Post("/subscription/card", subscriptionupdatecard.New(logger, deps.Subscription).ServeHTTP)
			})

			// Конечные точки для премиум-пользователей и администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumMiddleware(users, true, logger))
				r.Post("/restaurants", restaurantcreate.New(logger, deps.Restaurant).ServeHTTP)
				r.Post("/restaurants/{id}/reservations", reservationcreate.New(logger, deps.Reservation).ServeHTTP)
				r.Get("/reservations", reservationlist.New(logger, deps.Reservation).ServeHTTP)
				r.Post("/reservations/{id}/cancel", reservationcancel.New(logger, deps.Reservation).ServeHTTP)
				r.Post("/restaurants/{id}/reviews", reviewcreate.New(logger, deps.Review).ServeHTTP)
				r.Patch("/reviews/{id}", reviewupdate.New(logger, deps.Review).ServeHTTP)
				r.Delete("/reviews/{id}", reviewremove.New(logger, deps.Review).ServeHTTP)
				r.Post("/restaurants/{id}/favorite", favoriteadd.New(logger, deps.Favorite).ServeHTTP)
				r.Delete("/restaurants/{id}/favorite", favoriteremove.New(logger, deps.Favorite).ServeHTTP)
				r.Get("/favorites", favoritelist.New(logger, deps.Favorite).ServeHTTP)
			})

			// Административный раздел
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))
				r.Get("/users", adminuserlist.New(logger, deps.Auth).ServeHTTP)
				r.Delete("/users/{uid}", adminuserremove.New(logger, deps.Auth).ServeHTTP)
				r.Patch("/users/{uid}/premium", adminuserpremium.New(logger, deps.Auth).ServeHTTP)
				r.Get("/restaurants", restaurantlist.New(logger, deps.Restaurant).ServeHTTP)
				r.Get("/restaurants/{id}", restaurantread.New(logger, deps.Restaurant).ServeHTTP)
				r.Patch("/restaurants/{id}", restaurantupdate.New(logger, deps.Restaurant).ServeHTTP)
				r.Patch("/restaurants/{id}/moderate", restaurantmoderate.New(logger, deps.Restaurant).ServeHTTP)
				r.Delete("/restaurants/{id}", restaurantremove.New(logger, deps.Restaurant).ServeHTTP)
				r.Patch("/reservations/{id}", reservationadminstatus.New(logger, deps.Reservation).ServeHTTP)
				r.Delete("/reservations/{id}", reservationadminremove.New(logger, deps.Reservation).ServeHTTP)
				r.Patch("/reviews/{id}/visibility", reviewvisibility.New(logger, deps.Review).ServeHTTP)
				r.Post("/categories", categorycreate.New(logger, deps.Category).ServeHTTP)
				r.Patch("/categories/{id}", categoryupdate.New(logger, deps.Category).ServeHTTP)
				r.Delete("/categories/{id}", categoryremove.New(logger, deps.Category).ServeHTTP)
				r.Patch("/company", companyupdate.New(logger, deps.Company).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
