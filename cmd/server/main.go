package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "svgecommerce/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"svgecommerce/internal/auth"
	"svgecommerce/internal/cache"
	"svgecommerce/internal/config"
	"svgecommerce/internal/db"
	"svgecommerce/internal/handler"
	"svgecommerce/internal/logger"
	"svgecommerce/internal/repository"
	"svgecommerce/internal/router"
	"svgecommerce/internal/service"
)

// @title SVG E-Commerce API
// @version 1.0
// @description Storefront API for SVG artwork: accounts, catalog, carts, orders, comments and followers.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("init logger", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(log)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.Error("database init", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.ResetDB {
		log.Warn("reset_db set, dropping all tables")
		db.Reset(gormDB, log)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("auto-migrate", slog.Any("error", err))
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, running without cache", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
	}
	cancelPing()

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(store, cacheClient, jwtService, tokenStore, cfg.BcryptCost, cfg.CacheTTL, log)
	catalogService := service.NewCatalogService(store, cacheClient, cfg.OptimisticRetries, cfg.CacheTTL, log)
	cartService := service.NewCartService(store, cfg.OptimisticRetries, log)
	orderService := service.NewOrderService(store, log)
	feedbackService := service.NewFeedbackService(store, cacheClient, cfg.OptimisticRetries, log)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, log, router.Handlers{
		Users:    handler.NewUserHandler(userService, orderService),
		Products: handler.NewProductHandler(catalogService),
		Carts:    handler.NewCartHandler(cartService),
		Orders:   handler.NewOrderHandler(orderService),
		Comments: handler.NewCommentHandler(feedbackService),
	}, jwtService, tokenStore)

	log.Info("swagger documentation available", slog.String("url", swaggerURL(cfg)))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown", slog.Any("error", err))
	}
	log.Info("server stopped")
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
