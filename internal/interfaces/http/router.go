// Package http assembles the gin engine and HTTP server for the API.
package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/application/triage"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	monprom "github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/prometheus"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/interfaces/http/handlers"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Service        *triage.Service
	Logger         logging.Logger
	Metrics        *monprom.AppMetrics
	MetricsHandler nethttp.Handler
	Version        string
	HealthChecks   map[string]handlers.HealthCheck
}

// NewRouter builds the gin engine with the full middleware chain and all
// routes mounted.
func NewRouter(cfg config.ServerConfig, deps RouterDeps) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(deps.Logger),
		middleware.RequestLogging(deps.Logger, middleware.DefaultLoggingConfig()),
		middleware.Metrics(deps.Metrics),
	)

	handlers.NewHealthHandler(deps.Version, deps.HealthChecks).Register(engine)
	if deps.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	v1 := engine.Group("/api/v1")
	handlers.NewComplaintHandler(deps.Service, deps.Logger).Register(v1)
	handlers.NewTriageHandler(deps.Service, deps.Logger).Register(v1)

	return engine
}
