package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/alerting"
	alertingdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/alerting/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/clock"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract"
	contractdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/export"
	exportdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/export/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability"
	obsmiddleware "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability/logger"
	obsmetrics "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability/metrics"
	obstracing "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability/tracing"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/ratelimit"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting"
	reportingdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate"
	runratedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/fallback"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	warehouse.Module,
	reporting.Module,
	runrate.Module,
	contract.Module,
	alerting.Module,
	export.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
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
	reporting     *config.ReportingConfigHolder
	clock         clock.Clock
	loader        *fallback.Loader
	reportingSvc  reportingdomain.Service
	runRateSvc    runratedomain.Service
	contractSvc   contractdomain.Service
	alertingSvc   alertingdomain.Service
	exportSvc     exportdomain.Service
	exportLimiter *ratelimit.ExportLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Reporting     *config.ReportingConfigHolder
	Clock         clock.Clock
	Loader        *fallback.Loader
	ReportingSvc  reportingdomain.Service
	RunRateSvc    runratedomain.Service
	ContractSvc   contractdomain.Service
	AlertingSvc   alertingdomain.Service
	ExportSvc     exportdomain.Service
	ExportLimiter *ratelimit.ExportLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		reporting:     p.Reporting,
		clock:         p.Clock,
		loader:        p.Loader,
		reportingSvc:  p.ReportingSvc,
		runRateSvc:    p.RunRateSvc,
		contractSvc:   p.ContractSvc,
		alertingSvc:   p.AlertingSvc,
		exportSvc:     p.ExportSvc,
		exportLimiter: p.ExportLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/customers", s.ListCustomers)

	// -------- Usage --------
	api.GET("/usage/summary", s.GetUsageSummary)
	api.GET("/usage/daily", s.GetDailyUsage)
	api.GET("/usage/top-customers", s.GetTopCustomers)
	api.GET("/usage/growth", s.GetUsageGrowth)

	// -------- Balances --------
	api.GET("/balances/summary", s.GetBalanceSummary)

	// -------- Run rate --------
	api.GET("/run-rate", s.GetOverallRunRate)
	api.GET("/run-rate/customers", s.GetCustomerRunRates)

	// -------- Contracts --------
	api.GET("/contracts/metrics", s.GetContractMetrics)
	api.GET("/contracts/chart", s.GetContractChart)

	// -------- Alerts --------
	api.GET("/alerts", s.GetAlerts)

	// -------- CSV exports --------
	exports := api.Group("/export", s.ExportRateLimit())
	exports.GET("/usage.csv", s.ExportUsage)
	exports.GET("/balances.csv", s.ExportBalances)
	exports.GET("/contracts.csv", s.ExportContracts)
}
