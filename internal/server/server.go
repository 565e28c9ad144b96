// Package server exposes the dashboard HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
	"github.com/revops-labs/pulse/internal/config"
	interventiondomain "github.com/revops-labs/pulse/internal/intervention/domain"
	"github.com/revops-labs/pulse/internal/observability/logger"
	"github.com/revops-labs/pulse/internal/observability/metrics"
	portfoliodomain "github.com/revops-labs/pulse/internal/portfolio/domain"
)

// syncLimit bounds how often a client may force a portfolio rebuild.
const (
	syncLimit  = 3
	syncWindow = time.Minute
)

type ServerParam struct {
	fx.In

	Config          config.Config
	Log             *zap.Logger
	DB              *gorm.DB
	GenID           *snowflake.Node
	HTTPMetrics     *metrics.HTTPMetrics
	AccountSvc      accountdomain.Service
	ActivitySvc     activitydomain.Service
	InterventionSvc interventiondomain.Service
	PortfolioSvc    portfoliodomain.Service
}

type Server struct {
	cfg             config.Config
	log             *zap.Logger
	db              *gorm.DB
	genID           *snowflake.Node
	accountSvc      accountdomain.Service
	activitySvc     activitydomain.Service
	interventionSvc interventiondomain.Service
	portfolioSvc    portfoliodomain.Service
	syncLimiter     *rateLimiter
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:             p.Config,
		log:             p.Log.Named("server"),
		db:              p.DB,
		genID:           p.GenID,
		accountSvc:      p.AccountSvc,
		activitySvc:     p.ActivitySvc,
		interventionSvc: p.InterventionSvc,
		portfolioSvc:    p.PortfolioSvc,
		syncLimiter:     newRateLimiter(syncLimit, syncWindow),
	}
}

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(p ServerParam) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(p.HTTPMetrics))
	return engine
}

// RegisterRoutes wires every endpoint onto the engine.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/", s.Dashboard)

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/accounts", s.ListAccounts)
		v1.POST("/accounts", s.CreateAccount)
		v1.GET("/accounts/:id", s.GetAccountByID)

		v1.GET("/portfolio/overview", s.GetPortfolioOverview)
		v1.GET("/portfolio/risk-by-tier", s.GetRiskByTier)
		v1.GET("/portfolio/health-scatter", s.GetHealthScatter)
		v1.GET("/portfolio/top-accounts", s.GetTopAccounts)
		v1.GET("/portfolio/snapshots", s.GetSnapshotHistory)
		v1.POST("/portfolio/sync", s.SyncPortfolio)

		v1.GET("/interventions", s.GetInterventionQueue)
		v1.GET("/activity", s.ListActivity)
	}
}

func (s *Server) Healthz(c *gin.Context) {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			if err := sqlDB.PingContext(c.Request.Context()); err != nil {
				AbortWithError(c, ErrServiceUnavailable)
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine, s *Server) {
	s.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
