package admin

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meridianlab/marketgate/gate"
	"github.com/meridianlab/marketgate/logger"
	"github.com/meridianlab/marketgate/validation"
	"github.com/meridianlab/marketgate/version"
)

// Server serves the gateway introspection API over Gin.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	gateway    *gate.Gateway
	config     Config
	log        *logger.Logger
}

// New creates the admin server and registers its routes. A nil log
// uses the registered "admin" component logger.
func New(cfg Config, gateway *gate.Gateway, log *logger.Logger) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Get("admin")
	} else {
		log = log.WithComponent("admin")
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      engine,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		},
		engine:  engine,
		gateway: gateway,
		config:  cfg,
		log:     log,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/breakers", s.handleBreakers)
	s.engine.GET("/cache/stats", s.handleCacheStats)
	s.engine.GET("/limiters", s.handleLimiters)
	s.engine.POST("/cache/invalidate", s.handleInvalidate)
}

// Start binds the port and begins serving. It returns once the listener
// is bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("admin server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Admin server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("Admin server started", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("admin server shutdown error: %w", err)
	}
	return nil
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      version.GetShortVersion(),
		"dependencies": s.gateway.Dependencies(),
	})
}

func (s *Server) handleBreakers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"breakers": s.gateway.BreakerStates()})
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.gateway.CacheStats())
}

func (s *Server) handleLimiters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"limiters": s.gateway.LimiterSnapshot()})
}

// invalidateRequest selects what to evict. An empty body clears the
// whole cache.
type invalidateRequest struct {
	Dependency string            `json:"dependency"`
	Endpoint   string            `json:"endpoint"`
	Params     map[string]string `json:"params"`
}

func (s *Server) handleInvalidate(c *gin.Context) {
	var req invalidateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.Dependency == "" && req.Endpoint == "" {
		removed := s.gateway.InvalidateAll()
		s.log.Info("Cache purged", map[string]interface{}{"removed": removed})
		c.JSON(http.StatusOK, gin.H{"removed": removed})
		return
	}
	v := validation.New()
	v.Required("dependency", req.Dependency)
	v.Required("endpoint", req.Endpoint)
	if err := v.Error(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found := s.gateway.Invalidate(req.Dependency, req.Endpoint, req.Params)
	c.JSON(http.StatusOK, gin.H{"invalidated": found})
}
