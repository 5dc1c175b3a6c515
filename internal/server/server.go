package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/waselhq/wasel/internal/config"
	obsmetrics "github.com/waselhq/wasel/internal/observability/metrics"
	orderdomain "github.com/waselhq/wasel/internal/order/domain"
	pointsdomain "github.com/waselhq/wasel/internal/points/domain"
	settlementdomain "github.com/waselhq/wasel/internal/settlement/domain"
	shopdomain "github.com/waselhq/wasel/internal/shop/domain"
	"github.com/waselhq/wasel/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(repository.ProvideStore[shopdomain.AdSpend]),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	orderSvc      orderdomain.Service
	pointsSvc     pointsdomain.Service
	settlementSvc settlementdomain.Service
	adSpends      repository.Repository[shopdomain.AdSpend]
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	OrderSvc      orderdomain.Service
	PointsSvc     pointsdomain.Service
	SettlementSvc settlementdomain.Service
	AdSpends      repository.Repository[shopdomain.AdSpend]
	ObsMetrics    *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		log:           p.Log.Named("http.server"),
		genID:         p.GenID,
		orderSvc:      p.OrderSvc,
		pointsSvc:     p.PointsSvc,
		settlementSvc: p.SettlementSvc,
		adSpends:      p.AdSpends,
		obsMetrics:    p.ObsMetrics,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.POST("/orders", s.CreateOrder)
		api.GET("/orders/:id", s.GetOrderByID)
		api.POST("/orders/:id/status", s.TransitionOrder)
	}

	admin := s.engine.Group("/admin")
	{
		admin.GET("/periods/current", s.GetCurrentPeriod)
		admin.POST("/periods/close", s.ClosePeriod)
		admin.POST("/points/adjust", s.AdjustPoints)
		admin.POST("/shops/:id/ads", s.RecordAdSpend)
	}
}
