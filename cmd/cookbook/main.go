package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/auth"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/config"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/events"
	h "github.com/Priyanka-Kadel/Cookbook-backend/internal/http"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/kv"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/payment"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/repository"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/service"
	"github.com/Priyanka-Kadel/Cookbook-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("cookbook", "info", false)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New("cookbook", cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	repos, err := repository.NewMongoRepositories(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	cancel()
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	store := kv.NewRedisStore(redisClient)
	if err := store.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing order events to Kafka")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	gateway := payment.NewEsewaGateway(payment.Config{
		SecretKey:   cfg.Esewa.SecretKey,
		ProductCode: cfg.Esewa.ProductCode,
		FormURL:     cfg.Esewa.FormURL,
		SuccessURL:  cfg.Esewa.SuccessURL,
		FailureURL:  cfg.Esewa.FailureURL,
	})

	recipeService := service.NewRecipeService(repos.Recipes)
	cartService := service.NewCartService(repos.Carts, recipeService)
	orderService := service.NewOrderService(repos.Orders, repos.Carts, recipeService, gateway, publisher)
	paymentService := service.NewPaymentService(repos.Orders, gateway, store, publisher)

	router := h.NewRouter(h.RouterDeps{
		Logger:             log,
		Tokens:             auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Sessions:           store,
		Recipes:            recipeService,
		Carts:              cartService,
		Orders:             orderService,
		Checkout:           orderService,
		Payments:           paymentService,
		CallbackRPS:        cfg.CallbackRate,
		CallbackBurst:      cfg.CallbackBurst,
		ClientSuccessURL:   cfg.ClientSuccessURL,
		ClientFailureURL:   cfg.ClientFailureURL,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(handler, "cookbook"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("cookbook API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}
