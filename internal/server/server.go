// internal/server/server.go

// Package server is the HTTP boundary: it validates request shapes, hands
// work to the analysis service and renders the success/error envelopes.
package server

import (
	"context"
	"net/http"
	"time"

	"farm-analysis-api/internal/common/config"
	"farm-analysis-api/internal/common/logger"
	"farm-analysis-api/internal/models"
	"farm-analysis-api/pkg/catalog"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalysisService is the orchestration dependency of the HTTP layer.
type AnalysisService interface {
	Analyze(ctx context.Context, data map[string]any, analysisType models.AnalysisType, partial map[string]any, opts models.Options) (*models.AnalysisResult, error)
	BatchAnalyze(ctx context.Context, datasets map[string]map[string]any, analysisType models.AnalysisType, partial map[string]any, opts models.Options) map[string]any
}

type Server struct {
	config  *config.Config
	service AnalysisService
	catalog *catalog.Catalog
	engine  *gin.Engine
	logger  logger.Logger
}

func New(cfg *config.Config, svc AnalysisService, cat *catalog.Catalog, zapLog *zap.Logger, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(ginzap.Ginzap(zapLog, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(zapLog, true))
	engine.Use(requestID())

	s := &Server{
		config:  cfg,
		service: svc,
		catalog: cat,
		engine:  engine,
		logger:  log.WithComponent("http-server"),
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	{
		api.POST("/analysis", s.handleAnalyze)
		api.POST("/analysis/batch", s.handleBatchAnalyze)
		api.GET("/analysis/types", s.handleListTypes)
	}

	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/ready", s.handleReady)
}

// Handler exposes the router to the HTTP server and to tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestID tags every request for log correlation, echoing a
// caller-provided X-Request-ID when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
