package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/meeting-digest/docs"
	"github.com/johnquangdev/meeting-digest/internal/adapter/handler"
	"github.com/johnquangdev/meeting-digest/internal/app"
	httpmw "github.com/johnquangdev/meeting-digest/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-digest/pkg/config"
	"github.com/johnquangdev/meeting-digest/pkg/jwt"
	"github.com/johnquangdev/meeting-digest/pkg/logger"
	pkgvalidator "github.com/johnquangdev/meeting-digest/pkg/validator"
)

// @title           Meeting Digest API
// @version         1.0
// @description     Summarizes meeting transcripts into a seven-section document and answers questions about them

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("10M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	zapLogger.Info("🔧 Initializing dependencies...")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	pipeline, err := app.Build(startupCtx, cfg, zapLogger, app.Options{Registerer: registry})
	cancelStartup()
	if err != nil {
		zapLogger.Fatal("❌ Failed to build digest pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	if cfg.Groq.APIKey == "" {
		zapLogger.Warn("⚠️  GROQ_API_KEY is empty; model calls will fail unless the environment provides it")
	}

	var authMW echo.MiddlewareFunc
	if cfg.JWT.AccessSecret != "" {
		zapLogger.Info("🔑 JWT authentication enabled for /v1")
		authMW = httpmw.EchoAuth(jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.Issuer, cfg.JWT.AccessExpiry))
	} else {
		zapLogger.Warn("⚠️  JWT_ACCESS_SECRET is empty; /v1 is unauthenticated")
	}

	digestHandler := handler.NewDigestHandler(pipeline.Service, zapLogger)
	webhookHandler := handler.NewAIWebhookHandler(pipeline.Service, cfg.Assembly.WebhookSecret, zapLogger)

	zapLogger.Info("🛣️  Setting up routes...")
	handler.NewRouter(cfg, digestHandler, webhookHandler, authMW, registry).Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		zapLogger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zapLogger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		zapLogger.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	webhookHandler.Wait()

	zapLogger.Info("✅ Server stopped gracefully")
}
