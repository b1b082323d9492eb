package api

import (
	"net/http"
	"time"

	"quanturnic/internal/engine"
	"quanturnic/internal/events"
	"quanturnic/internal/monitor"
	"quanturnic/internal/rpc"

	"github.com/gin-gonic/gin"
)

// Server wires HTTP endpoints around the bot engine.
type Server struct {
	Router  *gin.Engine
	Engine  engine.Service
	Bus     *events.Bus
	Metrics *monitor.SystemMetrics
}

// Options tunes the middleware stack.
type Options struct {
	RequestTimeout time.Duration // 0 disables
	RateLimitRPS   float64       // per client IP; 0 disables
	RateLimitBurst int
}

func NewServer(svc engine.Service, bus *events.Bus, metrics *monitor.SystemMetrics, opts Options) *Server {
	r := gin.New()
	limiter := NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	// Middleware stack (order matters!)
	r.Use(gin.Recovery())                         // Panic recovery (first)
	r.Use(RequestIDMiddleware())                  // Request ID tracking
	r.Use(RequestLogger(metrics))                 // Request logging (after ID is set)
	r.Use(limiter.Middleware())                   // Rate limiting
	r.Use(TimeoutMiddleware(opts.RequestTimeout)) // Request deadline
	r.Use(CORSMiddleware())                       // CORS (last before routes)

	s := &Server{
		Router:  r,
		Engine:  svc,
		Bus:     bus,
		Metrics: metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/ws", s.websocket)
	s.Router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "no such route")
	})

	procs := s.Router.Group("/rpc")
	{
		procs.GET("", s.describe)
		procs.POST("/"+rpc.MethodStartBot, s.startBot)
		procs.POST("/"+rpc.MethodStopBot, s.stopBot)
		procs.POST("/"+rpc.MethodIsBotActive, s.isBotActive)
		procs.POST("/"+rpc.MethodGetTradeLogs, s.getTradeLogs)
		procs.POST("/"+rpc.MethodGetBotConfig, s.getBotConfig)
		procs.POST("/"+rpc.MethodUpdateConfig, s.updateConfig)
		procs.POST("/"+rpc.MethodGetBalance, s.getBalance)
		procs.POST("/"+rpc.MethodAnalyzeMarket, s.analyzeMarket)
	}

	api := s.Router.Group("/api")
	{
		api.GET("/system/status", s.getSystemStatus)
		api.GET("/metrics", s.getMetrics)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Engine.GetSystemStatus(c.Request.Context()))
}

func (s *Server) getMetrics(c *gin.Context) {
	if s.Metrics == nil {
		respondError(c, http.StatusServiceUnavailable, "METRICS_UNAVAILABLE", "metrics not available")
		return
	}
	c.JSON(http.StatusOK, s.Metrics.GetSnapshot())
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":  code,
		"error": msg,
	})
}

// Handler exposes the router for http.Server.
func (s *Server) Handler() http.Handler {
	return s.Router
}
