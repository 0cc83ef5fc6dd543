// Package api exposes the agent core to the presentation layer over a
// small JSON HTTP surface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"x360-agent/internal/analyzer"
	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/common/observability"
	"x360-agent/internal/session"
	"x360-agent/internal/store"
)

// HealthChecker reports whether the agent backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) bool
}

// Server wires the core packages behind gin handlers.
type Server struct {
	engine     *gin.Engine
	manager    *session.Manager
	store      *store.Store
	health     HealthChecker
	policy     analyzer.ConflictPolicy
	errHandler *commonerrors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
	now        func() time.Time
}

// Deps carries everything the server needs. Obs may be nil in tests.
type Deps struct {
	Manager *session.Manager
	Store   *store.Store
	Health  HealthChecker
	Policy  analyzer.ConflictPolicy
	Obs     *observability.Observability
	Logger  logger.Logger
}

func NewServer(deps Deps) *Server {
	s := &Server{
		manager:    deps.Manager,
		store:      deps.Store,
		health:     deps.Health,
		policy:     deps.Policy,
		errHandler: commonerrors.NewErrorHandler(deps.Logger),
		obs:        deps.Obs,
		logger:     deps.Logger,
		now:        time.Now,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/health", s.handleHealth)
		v1.GET("/tickets", s.handleListTickets)
		v1.GET("/stats", s.handleStats)

		v1.POST("/sessions", s.handleCreateSession)
		v1.GET("/sessions/:id", s.handleGetSession)
		v1.DELETE("/sessions/:id", s.handleDeleteSession)
		v1.POST("/sessions/:id/view", s.handleSelectView)
		v1.POST("/sessions/:id/briefing-item", s.handleBriefingItem)
		v1.POST("/sessions/:id/messages", s.handleSendMessage)
		v1.POST("/sessions/:id/actions", s.handleRunAction)
		v1.POST("/sessions/:id/chat/clear", s.handleClearChat)
	}

	s.engine = engine
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		s.logger.Info("Request handled", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     status,
			"durationMs": elapsed.Milliseconds(),
		})

		if s.obs != nil {
			outcome := "success"
			if status >= 400 {
				outcome = "error"
			}
			s.obs.RecordRequestProcessed(c.Request.Context(), c.FullPath(), outcome)
			s.obs.RecordRequestDuration(c.Request.Context(), elapsed, c.FullPath())
		}
	}
}

func (s *Server) respondError(c *gin.Context, operation string, err error) {
	stdErr, status := s.errHandler.HandleRequestError(operation, err)
	c.JSON(status, gin.H{"error": stdErr})
}
