package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/photoframix/storefront/internal/cart"
	"github.com/photoframix/storefront/internal/cart/cache"
	cartrepo "github.com/photoframix/storefront/internal/cart/repository"
	"github.com/photoframix/storefront/internal/checkout"
	"github.com/photoframix/storefront/internal/config"
	h "github.com/photoframix/storefront/internal/http"
	"github.com/photoframix/storefront/internal/orders"
	"github.com/photoframix/storefront/internal/outcome"
	"github.com/photoframix/storefront/internal/payu"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "storefront").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// MongoDB holds the durable cart snapshots.
	mongoDB, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	logger.Info().Str("uri", cfg.MongoURI).Msg("connected to MongoDB")

	cartRepository := cartrepo.NewMongoRepository(mongoDB)
	if indexer, ok := cartRepository.(interface{ CreateIndexes(context.Context) error }); ok {
		if err := indexer.CreateIndexes(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to create cart indexes")
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	// Postgres holds the order records.
	orderCreds := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	orderRepo, err := orders.NewRepository(orderCreds)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(orderCreds); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	logger.Info().Str("db", cfg.PostgresDB).Msg("connected to Postgres")

	cartService := cart.NewService(cartRepository, cache.NewRedisCache(redisClient, cfg.CartCacheTTL), logger)
	checkoutService := checkout.NewService(cartService, orderRepo, checkout.GatewayConfig{
		Key:        cfg.PayUKey,
		Salt:       cfg.PayUSalt,
		PaymentURL: cfg.PayUPaymentURL,
		BaseURL:    cfg.BaseURL,
		Currency:   cfg.Currency,
	}, logger)
	stash := outcome.NewRedisStash(redisClient)
	verifier := payu.NewVerifyClient(cfg.PayUVerifyURL, cfg.PayUKey, cfg.PayUSalt, 10*time.Second)

	router := h.NewRouter(h.RouterDeps{
		Cart:     h.NewCartHandler(cartService),
		Checkout: h.NewCheckoutHandler(checkoutService, logger),
		Callback: h.NewCallbackHandler(orderRepo, stash, verifier, cfg.PayUSalt, cfg.VerifyCallback, logger),
		Result:   h.NewResultHandler(stash, cartService, cfg.SettleDelay, logger),
		Orders:   h.NewOrdersHandler(orderRepo),
	}, cfg.RequestTimeout, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("mongo disconnect error")
	}

	logger.Info().Msg("server exited")
}
