// Package api exposes the matching service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"matching-workers/internal/common/database"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Matcher is the subset of matching.Service the handlers need.
type Matcher interface {
	MatchContractors(ctx context.Context, req models.ContractorMatchRequest) (*models.ContractorMatchResponse, error)
	MatchSubsidies(ctx context.Context, req models.SubsidyMatchRequest) (*models.SubsidyMatchResponse, error)
}

type RouterOptions struct {
	ServiceName  string
	Matcher      Matcher
	Dependencies []database.Dependency
	ReadyTimeout time.Duration
	Logger       logger.Logger
}

func NewRouter(opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "api"})

	readyTimeout := opts.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = 3 * time.Second
	}

	h := &handler{matcher: opts.Matcher, log: log}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(requestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/ready", func(c *gin.Context) {
		status, ok := database.CheckAll(c.Request.Context(), readyTimeout, opts.Dependencies...)
		code := http.StatusOK
		state := "ready"
		if !ok {
			code = http.StatusServiceUnavailable
			state = "not ready"
		}
		c.JSON(code, gin.H{"status": state, "dependencies": status})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/contractors/match", h.matchContractors)
	v1.POST("/subsidies/match", h.matchSubsidies)

	return router
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
