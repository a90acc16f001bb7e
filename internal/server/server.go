// Package server exposes the quiz, discovery and integration services over
// a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/config"
	"github.com/alexanderramin/clarity/internal/metrics"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators the handlers call.
type Deps struct {
	Catalog     *catalog.Catalog
	Taxonomy    *wheel.Taxonomy
	Quiz        service.QuizService
	Sessions    service.FlowSessionService
	Discovery   service.DiscoveryService
	Integration service.IntegrationService
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
	Now         func() time.Time
}

type Server struct {
	cfg    config.ServerConfig
	deps   Deps
	engine *gin.Engine
}

func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Taxonomy == nil {
		deps.Taxonomy = wheel.Default()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestMetrics(deps.Metrics))
	engine.Use(requestLogger(deps.Logger))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	s := &Server{cfg: cfg, deps: deps, engine: engine}
	s.routes()
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	c.ExposeHeaders = []string{"Content-Disposition"}
	return c
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))

	api := s.engine.Group("/api")
	api.GET("/catalog", s.handleCatalog)

	quiz := api.Group("/quiz")
	{
		quiz.POST("/score", s.handleScoreQuiz)
		quiz.POST("/email", s.handleQuizEmail)
		quiz.GET("/:session", s.handleGetQuiz)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", s.handleEnsureSession)
		sessions.POST("/:session/complete", s.handleCompleteSession)
		sessions.GET("/:session/clusters", s.handleListClusters)
		sessions.GET("/:session/profile", s.handleProfile)
		sessions.GET("/:session/export", s.handleExport)
		sessions.GET("/:session/identity", s.handleIdentity)
	}

	api.POST("/cluster", s.handleCluster)
	api.POST("/career-analysis", s.handleCareerAnalysis)
	api.GET("/wheels/:kind", s.handleWheel)
}

// Handler returns the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.deps.Logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		s.deps.Logger.Info("http server stopped")
		return nil
	})
	return g.Wait()
}
