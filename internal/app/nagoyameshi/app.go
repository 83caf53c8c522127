// Package nagoyameshi собирает основное HTTP-приложение каталога ресторанов:
// подключение к базе, кэшу и брокеру, инициализацию сервисов и сервера.
package nagoyameshi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/nagoyameshi/nagoyameshi-api/internal/cache"
	"github.com/nagoyameshi/nagoyameshi-api/internal/config"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/jwt"
	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/rabbitmq"
	"github.com/nagoyameshi/nagoyameshi-api/internal/migrations"
	"github.com/nagoyameshi/nagoyameshi-api/internal/paymentprovider"
	authservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/auth"
	categoryservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/category"
	companyservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/company"
	favoriteservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/favorite"
	reconcilerservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/reconciler"
	reservationservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/reservation"
	restaurantservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/restaurant"
	reviewservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/review"
	subservice "github.com/nagoyameshi/nagoyameshi-api/internal/services/subscription"
	"github.com/nagoyameshi/nagoyameshi-api/internal/storage/repository"
)

// App представляет основное приложение каталога ресторанов.
type App struct {
	server     *http.Server
	reconciler *reconcilerservice.ReconcilerService
	conn       *amqp.Connection
	ch         *amqp.Channel
	db         *repository.Storage
	logger     *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр основного приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err = waitForDB(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(
		cfg.ProviderAPIURL, cfg.ProviderSecret, cfg.ProviderPriceID, cfg.ProviderTimeout)

	authService := authservice.NewAuthService(db, db, jwtMaker, ch, logger)
	subscriptionService := subservice.NewSubscriptionService(
		db, providerClient, cfg.SuccessURL, cfg.CancelURL, logger)
	restaurantService := restaurantservice.NewRestaurantService(db, cacheRedis, logger)
	reservationService := reservationservice.NewReservationService(db, logger)
	reviewService := reviewservice.NewReviewService(db, logger)
	favoriteService := favoriteservice.NewFavoriteService(db, logger)
	categoryService := categoryservice.NewCategoryService(db, logger)
	companyService := companyservice.NewCompanyService(db)
	reconcilerService := reconcilerservice.NewReconcilerService(db, cfg.SweepInterval, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, db, &HandlersDeps{
		Auth:         authService,
		Subscription: subscriptionService,
		Restaurant:   restaurantService,
		Reservation:  reservationService,
		Review:       reviewService,
		Favorite:     favoriteService,
		Category:     categoryService,
		Company:      companyService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		reconciler: reconcilerService,
		conn:       conn,
		ch:         ch,
		db:         db,
		logger:     logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает HTTP-сервер и фоновую сверку подписок, ожидая отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.reconciler.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		closeResources(a.ch, a.conn, a.logger)
		a.db.DB.Close()
		return err
	}
}
