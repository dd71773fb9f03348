package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	httpmw "github.com/johnquangdev/meeting-digest/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-digest/pkg/config"
)

// Token scopes checked on /v1 routes. Tokens without scopes are granted all of them.
const (
	ScopeSummariesRead  = "summaries:read"
	ScopeSummariesWrite = "summaries:write"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	digestHandler  *Digest
	webhookHandler *AIWebhookHandler
	authMiddleware echo.MiddlewareFunc
	gatherer       prometheus.Gatherer
}

// NewRouter creates a new router with all handlers. A nil authMiddleware leaves /v1 open;
// a nil gatherer disables /metrics.
func NewRouter(cfg *config.Config, digestHandler *Digest, webhookHandler *AIWebhookHandler, authMiddleware echo.MiddlewareFunc, gatherer prometheus.Gatherer) *Router {
	return &Router{
		cfg:            cfg,
		digestHandler:  digestHandler,
		webhookHandler: webhookHandler,
		authMiddleware: authMiddleware,
		gatherer:       gatherer,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if rt.gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 group
	v1 := e.Group("/v1")
	if rt.authMiddleware != nil {
		v1.Use(rt.authMiddleware)
	}

	rt.setupDigestRoutes(v1)
	rt.setupWebhookRoutes(e.Group("/webhooks"))
}

// setupDigestRoutes configures summary and answer routes
func (rt *Router) setupDigestRoutes(g *echo.Group) {
	if rt.digestHandler == nil {
		g.Any("/*", rt.notImplemented)
		return
	}

	read := rt.scope(ScopeSummariesRead)
	write := rt.scope(ScopeSummariesWrite)

	g.POST("/summaries", rt.digestHandler.Summarize, write...)
	g.GET("/summaries", rt.digestHandler.ListSummaries, read...)
	g.GET("/summaries/:id", rt.digestHandler.GetSummary, read...)
	g.GET("/summaries/:id/document", rt.digestHandler.Document, read...)
	g.POST("/transcripts/:id/summary", rt.digestHandler.SummarizeTranscript, write...)
	g.POST("/answers", rt.digestHandler.Answer, read...)
}

// scope guards a route by token scope; without authentication there is nothing to check
func (rt *Router) scope(name string) []echo.MiddlewareFunc {
	if rt.authMiddleware == nil {
		return nil
	}
	return []echo.MiddlewareFunc{httpmw.RequireScope(name)}
}

// setupWebhookRoutes configures provider callbacks. They authenticate by signature, not JWT.
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.webhookHandler == nil {
		return
	}
	g.POST("/assemblyai", rt.webhookHandler.HandleAssemblyAIWebhook)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": environment,
	})
}
