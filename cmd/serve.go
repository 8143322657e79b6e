package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-food-ordering/config"
	"go-food-ordering/controllers"
	"go-food-ordering/database"
	"go-food-ordering/events"
	"go-food-ordering/helpers"
	"go-food-ordering/logger"
	"go-food-ordering/metrics"
	"go-food-ordering/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		log.Warn("JWT_SECRET is not set, using the development default")
	}

	deps, err := initializeDependencies(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	return startServerWithGracefulShutdown(cfg, deps, log)
}

// appDependencies holds the initialized stores and clients.
type appDependencies struct {
	controllers controllers.Dependencies
	tokens      *helpers.TokenManager
	hub         *controllers.Hub
	metrics     *metrics.Metrics
	closers     []func() error
}

func (d *appDependencies) close(log logger.Logger) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Warn("Error during shutdown: ", err)
		}
	}
}

// initializeDependencies connects MongoDB and the optional Redis and RabbitMQ
// backends. Redis and RabbitMQ are skipped when their address is empty.
func initializeDependencies(ctx context.Context, cfg *config.Config, log logger.Logger) (*appDependencies, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	deps := &appDependencies{}

	client, err := database.DBinstance(ctx, cfg.Mongo.URL)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, func() error { return client.Disconnect(context.Background()) })
	log.Info("Connected to MongoDB")

	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		deps.close(log)
		return nil, err
	}

	var carts controllers.CartStore
	if cfg.Redis.Addr != "" {
		rdb := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			deps.close(log)
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		deps.closers = append(deps.closers, rdb.Close)
		carts = database.NewRedisCartStore(rdb, cfg.Redis.CartTTL)
		log.Info("Carts are stored in Redis at ", cfg.Redis.Addr)
	} else {
		carts = database.NewMemoryCartStore()
		log.Warn("REDIS_ADDR is not set, carts are kept in memory")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			deps.close(log)
			return nil, err
		}
		deps.closers = append(deps.closers, amqpPublisher.Close)
		publisher = amqpPublisher
		log.Info("Publishing order events to exchange ", cfg.AMQP.Exchange)
	}

	tokens, err := helpers.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, cfg.Auth.Issuer)
	if err != nil {
		deps.close(log)
		return nil, err
	}

	deps.tokens = tokens
	deps.metrics = metrics.New()
	deps.hub = controllers.NewHub(log)
	deps.closers = append(deps.closers, func() error { deps.hub.Close(); return nil })
	deps.controllers = controllers.Dependencies{
		Users:       database.NewUserStore(db),
		Companies:   database.NewCompanyStore(db),
		Restaurants: database.NewRestaurantStore(db),
		Orders:      database.NewOrderStore(db),
		Carts:       carts,
		Tokens:      tokens,
		Publisher:   publisher,
		Notifier:    deps.hub,
		Metrics:     deps.metrics,
		Log:         log,
		BcryptCost:  cfg.Auth.BcryptCost,
	}
	return deps, nil
}

// startServerWithGracefulShutdown serves until SIGINT or SIGTERM, then drains
// in-flight requests.
func startServerWithGracefulShutdown(cfg *config.Config, deps *appDependencies, log logger.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	router := routes.NewRouter(routes.Options{
		Deps:         deps.controllers,
		Tokens:       deps.tokens,
		Hub:          deps.hub,
		Metrics:      deps.metrics,
		Log:          log,
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	deps.hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server stopped gracefully")
	return nil
}
